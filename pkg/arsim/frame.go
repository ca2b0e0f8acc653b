package arsim

import (
	"github.com/decker502/arportal/pkg/ar"
)

// simCamera 模拟相机
type simCamera struct {
	pose    ar.Pose
	state   ar.TrackingState
	pinhole ar.Pinhole
}

func (c *simCamera) Pose() ar.Pose {
	return c.pose
}

func (c *simCamera) TrackingState() ar.TrackingState {
	return c.state
}

func (c *simCamera) Project(world ar.Vec3, width, height int) (ar.Projection, bool) {
	return c.pinhole.Project(c.pose, world, width, height)
}

// simFrame 一帧快照
type simFrame struct {
	session   *Session
	timestamp int64
	camera    *simCamera
	planes    []*simPlane
	width     int
	height    int
}

func (f *simFrame) TimestampNanos() int64 {
	return f.timestamp
}

func (f *simFrame) Camera() ar.Camera {
	return f.camera
}

// UpdatedPlanes 按配置顺序返回已检测到的平面
func (f *simFrame) UpdatedPlanes() []ar.Plane {
	out := make([]ar.Plane, len(f.planes))
	for i, p := range f.planes {
		out[i] = p
	}
	return out
}

// HitTest 从屏幕点发出射线；相机未追踪时没有交点
func (f *simFrame) HitTest(screenX, screenY float64) []ar.HitResult {
	if f.camera.state != ar.TrackingStateTracking {
		return nil
	}
	origin, dir := f.camera.pinhole.Ray(f.camera.pose, screenX, screenY, f.width, f.height)
	return f.session.hitTest(origin, dir)
}

// AcquireCameraImage 渲染当前帧的合成相机图像
//
// 同一时间只能持有一张图像；过期帧（已经有更新的帧）不再提供图像。
func (f *simFrame) AcquireCameraImage() (ar.CameraImage, error) {
	s := f.session
	if s.closed || s.latest != f || s.imageOpen {
		return nil, ar.ErrImageNotAvailable
	}
	img := renderImage(s, f.camera.pose)
	s.imageOpen = true
	return img, nil
}
