package entities

import (
	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/ecs"
)

// NewBallEntity 创建跟随相机的小球
//
// 小球挂在相机上而不是平面锚点上，不计入传送门上限。
// 初始位姿为 camPose ∘ LocalOffset，之后由 BallFollowSystem 每帧刷新。
func NewBallEntity(manager *ecs.EntityManager, camPose ar.Pose, cfg config.BallConfig) ecs.EntityID {
	id := manager.CreateEntity()

	offset := ar.Translation(cfg.LocalOffset[0], cfg.LocalOffset[1], cfg.LocalOffset[2])

	manager.AddComponent(id, &components.BallComponent{
		LocalOffset: offset,
		DragOffset:  offset,
		TouchRadius: cfg.TouchRadius,
	})
	manager.AddComponent(id, &components.TransformComponent{
		Pose: camPose.Compose(offset),
	})
	manager.AddComponent(id, &components.RenderableComponent{
		TemplateURI: cfg.ModelURI,
		Scale:       cfg.Scale,
	})

	return id
}
