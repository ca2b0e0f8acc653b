// Package ar 定义游戏与外部 AR 引擎之间的协作接口
//
// 追踪、平面检测、渲染等能力全部由 AR 引擎提供，本包只描述游戏消费的部分：
// 帧、平面、锚点、相机、相机图像以及命中测试结果。
// 坐标系约定与主流 AR 引擎一致：右手系，Y 轴向上，相机朝向 -Z。
package ar

import "math"

// Vec3 三维向量（单位：米）
type Vec3 struct {
	X, Y, Z float64
}

// Add 返回 v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 返回 v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 返回 v * s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 返回单位向量，零向量原样返回
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Quat 单位四元数表示的旋转
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat 无旋转
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle 绕单位轴 axis 旋转 angle 弧度
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(angle / 2)}
}

// QuatFromYawPitch 先绕 Y 轴偏航，再绕局部 X 轴俯仰
func QuatFromYawPitch(yaw, pitch float64) Quat {
	return QuatFromAxisAngle(Vec3{Y: 1}, yaw).Mul(QuatFromAxisAngle(Vec3{X: 1}, pitch))
}

// Mul 返回 q * o（先应用 o，再应用 q）
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate 共轭，对单位四元数即为逆旋转
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate 用 q 旋转向量 v
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Pose 位姿：位置 + 朝向
type Pose struct {
	Position Vec3
	Rotation Quat
}

// IdentityPose 原点、无旋转
func IdentityPose() Pose {
	return Pose{Rotation: IdentityQuat()}
}

// Translation 仅包含平移的位姿
func Translation(x, y, z float64) Pose {
	return Pose{Position: Vec3{x, y, z}, Rotation: IdentityQuat()}
}

// Compose 把局部位姿 local 变换到 p 所在的坐标系
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position: p.Position.Add(p.Rotation.Rotate(local.Position)),
		Rotation: p.Rotation.Mul(local.Rotation),
	}
}

// TransformPoint 把局部坐标点变换到世界坐标
func (p Pose) TransformPoint(v Vec3) Vec3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

// Inverse 逆变换
func (p Pose) Inverse() Pose {
	inv := p.Rotation.Conjugate()
	return Pose{
		Position: inv.Rotate(p.Position).Scale(-1),
		Rotation: inv,
	}
}

// Forward 位姿朝向（局部 -Z 轴）
func (p Pose) Forward() Vec3 {
	return p.Rotation.Rotate(Vec3{Z: -1})
}
