package components

import "github.com/decker502/arportal/pkg/ar"

// BallComponent 跟随相机的小球
//
// 静止时位于相机位姿 ∘ LocalOffset；玩家按住小球时 Held 为 true，
// 改用 DragOffset（手指射线在静止深度处的点），松手后回到 LocalOffset。
type BallComponent struct {
	LocalOffset ar.Pose
	DragOffset  ar.Pose
	Held        bool
	TouchRadius float64 // 按住判定半径（米）
}

// Offset 当前生效的相机本地位姿
func (b *BallComponent) Offset() ar.Pose {
	if b.Held {
		return b.DragOffset
	}
	return b.LocalOffset
}
