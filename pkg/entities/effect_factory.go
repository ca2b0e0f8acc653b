package entities

import (
	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/lucasb-eyer/go-colorful"
)

// PopEffectDuration 摧毁效果持续时间（秒）
const PopEffectDuration = 0.35

// NewPopEffectEntity 在被摧毁的传送门位置创建一个扩散淡出的圆环
//
// 效果实体没有锚点，位姿固定在摧毁那一刻；不可触摸，到期后由 LifetimeSystem 销毁。
func NewPopEffectEntity(manager *ecs.EntityManager, pose ar.Pose, color colorful.Color, templateURI string) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.TransformComponent{Pose: pose})
	manager.AddComponent(id, &components.RenderableComponent{
		TemplateURI:   templateURI,
		Scale:         1,
		ColorOverride: &color,
		Highlight:     1,
		LiesFlat:      true,
	})
	manager.AddComponent(id, &components.LifetimeComponent{MaxLifetime: PopEffectDuration})

	return id
}
