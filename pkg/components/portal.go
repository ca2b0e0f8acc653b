package components

import (
	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/game"
	"github.com/lucasb-eyer/go-colorful"
)

// PortalComponent 标记实体为传送门
//
// PlaneID 只是回指，传送门不拥有平面。
// Destroyed 置位后实体会在本帧末尾被移除，重复的触摸报告通过它去重。
type PortalComponent struct {
	PlaneID   game.PlaneID
	Pose      ar.Pose        // 世界位姿，由 AnchorSyncSystem 每帧从锚点刷新
	Color     colorful.Color // 生成时从相机图像中心取到的颜色
	Destroyed bool
	SpawnedAt int64 // 生成时的帧时间戳（纳秒）
}
