package ar

import "math"

// nearClip 小于该深度的点不投影
const nearClip = 0.05

// Pinhole 针孔相机模型，按垂直视场角定义
type Pinhole struct {
	FovY float64 // 垂直视场角（弧度）
}

// NewPinhole 根据垂直视场角（度）创建针孔模型
func NewPinhole(fovYDegrees float64) Pinhole {
	return Pinhole{FovY: fovYDegrees * math.Pi / 180}
}

// FocalLength 屏幕高度为 height 像素时的焦距（像素）
func (p Pinhole) FocalLength(height int) float64 {
	return float64(height) / 2 / math.Tan(p.FovY/2)
}

// Project 世界坐标 → 屏幕坐标
func (p Pinhole) Project(cam Pose, world Vec3, width, height int) (Projection, bool) {
	local := cam.Inverse().TransformPoint(world)
	depth := -local.Z
	if depth <= nearClip {
		return Projection{}, false
	}
	f := p.FocalLength(height)
	return Projection{
		X:              float64(width)/2 + f*local.X/depth,
		Y:              float64(height)/2 - f*local.Y/depth,
		Depth:          depth,
		PixelsPerMetre: f / depth,
	}, true
}

// Ray 屏幕点对应的世界射线（起点为相机位置，方向已归一化）
func (p Pinhole) Ray(cam Pose, screenX, screenY float64, width, height int) (Vec3, Vec3) {
	f := p.FocalLength(height)
	local := Vec3{
		X: (screenX - float64(width)/2) / f,
		Y: -(screenY - float64(height)/2) / f,
		Z: -1,
	}
	return cam.Position, cam.Rotation.Rotate(local).Normalize()
}
