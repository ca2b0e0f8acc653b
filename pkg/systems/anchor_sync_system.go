package systems

import (
	"log"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
)

// AnchorSyncSystem 每帧从锚点刷新实体的世界位姿
//
// 锚点暂停追踪时实体被隐藏，恢复后重新显示；传送门不会因此被销毁，
// 存活计数也保持不变。
type AnchorSyncSystem struct {
	entityManager *ecs.EntityManager
}

// NewAnchorSyncSystem 创建锚点同步系统
func NewAnchorSyncSystem(em *ecs.EntityManager) *AnchorSyncSystem {
	return &AnchorSyncSystem{entityManager: em}
}

// Update 同步所有挂载锚点的实体
func (s *AnchorSyncSystem) Update() {
	for _, id := range ecs.GetEntitiesWith2[*components.AnchorComponent, *components.TransformComponent](s.entityManager) {
		anchor, _ := ecs.GetComponent[*components.AnchorComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if anchor.Anchor == nil {
			continue
		}

		tracking := anchor.Anchor.TrackingState() == ar.TrackingStateTracking
		if tracking {
			transform.Pose = anchor.Anchor.Pose()
			if portal, ok := ecs.GetComponent[*components.PortalComponent](s.entityManager, id); ok {
				portal.Pose = transform.Pose
			}
		}

		if renderable, ok := ecs.GetComponent[*components.RenderableComponent](s.entityManager, id); ok {
			if renderable.Hidden == tracking {
				log.Printf("[AnchorSyncSystem] Entity %d anchor %v, hidden=%v", id, anchor.Anchor.TrackingState(), !tracking)
			}
			renderable.Hidden = !tracking
		}
	}
}
