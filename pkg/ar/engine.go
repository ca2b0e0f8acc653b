package ar

import (
	"errors"
	"fmt"
)

// TrackingState AR 引擎对相机位姿或平面的追踪置信度
type TrackingState int

const (
	// TrackingStateTracking 正在追踪，位姿可用
	TrackingStateTracking TrackingState = iota
	// TrackingStatePaused 暂时丢失追踪，之后可能恢复
	TrackingStatePaused
	// TrackingStateStopped 永久停止追踪
	TrackingStateStopped
)

// String 返回追踪状态名称（用于日志）
func (s TrackingState) String() string {
	switch s {
	case TrackingStateTracking:
		return "tracking"
	case TrackingStatePaused:
		return "paused"
	case TrackingStateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("TrackingState(%d)", int(s))
	}
}

// PlaneKey AR 引擎分配的平面句柄
//
// 引擎可能回收或合并平面对象，游戏侧需要自行映射为稳定编号（见 game.PlaneRegistry）。
type PlaneKey uint64

// 引擎协作方返回的哨兵错误
var (
	// ErrImageNotAvailable 当前帧没有可用的相机图像（或上一张图像尚未释放）
	ErrImageNotAvailable = errors.New("camera image not available")
	// ErrNotTracking 对未追踪的平面创建锚点
	ErrNotTracking = errors.New("trackable is not tracking")
	// ErrSessionPaused 会话已暂停，不产生新帧
	ErrSessionPaused = errors.New("session is paused")
)

// HitResult 命中测试的一个交点
type HitResult struct {
	Pose     Pose     // 交点位姿（Y 轴为平面法线）
	Distance float64  // 沿射线到相机的距离（米）
	PlaneKey PlaneKey // 被命中的平面
}

// Anchor 引擎持续注册在真实环境中的固定位姿
type Anchor interface {
	Pose() Pose
	TrackingState() TrackingState
	// Detach 停止追踪并释放锚点，重复调用无副作用
	Detach()
}

// Plane 引擎检测到的真实平面
type Plane interface {
	Key() PlaneKey
	TrackingState() TrackingState
	AnchorCount() int
	CreateAnchor(pose Pose) (Anchor, error)
}

// Projection 世界点投影到屏幕后的结果
type Projection struct {
	X, Y           float64 // 屏幕坐标（像素）
	Depth          float64 // 沿视线方向的深度（米）
	PixelsPerMetre float64 // 该深度处 1 米对应的屏幕像素数
}

// Camera 相机位姿与投影
type Camera interface {
	Pose() Pose
	TrackingState() TrackingState
	// Project 把世界坐标点投影到 width x height 的屏幕，点在相机背后时返回 false
	Project(world Vec3, width, height int) (Projection, bool)
}

// ImagePlane 相机图像的一个分量平面
type ImagePlane struct {
	Data        []byte
	RowStride   int // 相邻两行起始字节的距离
	PixelStride int // 同一行相邻像素的字节距离
}

// CameraImage 设备原生的多平面 YUV_420_888 相机图像
//
// Planes 依次为 Y、U(Cb)、V(Cr)。调用者必须在使用后 Close。
type CameraImage interface {
	Width() int
	Height() int
	Planes() [3]ImagePlane
	Close() error
}

// TrackedFrame 引擎每帧产出的快照
type TrackedFrame interface {
	TimestampNanos() int64
	Camera() Camera
	// UpdatedPlanes 返回引擎当前报告的平面，顺序由引擎决定
	UpdatedPlanes() []Plane
	// HitTest 从屏幕点发出射线，交点按距离由近及远排列
	HitTest(screenX, screenY float64) []HitResult
	// AcquireCameraImage 获取当前帧的相机图像，同一时间只能持有一张
	AcquireCameraImage() (CameraImage, error)
}

// Session AR 会话
type Session interface {
	// Update 推进一帧；会话暂停时返回 ErrSessionPaused
	Update() (TrackedFrame, error)
	SetViewport(width, height int)
	Pause()
	Resume()
	Close() error
}

// HitsOnPlane 过滤出命中指定平面的交点，保持原有顺序
func HitsOnPlane(hits []HitResult, key PlaneKey) []HitResult {
	var out []HitResult
	for _, h := range hits {
		if h.PlaneKey == key {
			out = append(out, h)
		}
	}
	return out
}
