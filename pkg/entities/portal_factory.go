package entities

import (
	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/decker502/arportal/pkg/game"
	"github.com/lucasb-eyer/go-colorful"
)

// spawnHighlight 新生成的传送门先以高亮出现，随后衰减
const spawnHighlight = 1.0

// PortalSpec 创建传送门所需的参数
type PortalSpec struct {
	PlaneID   game.PlaneID
	Anchor    ar.Anchor // 挂载在平面上的锚点，位姿从它读取
	Color     colorful.Color
	SpawnedAt int64 // 帧时间戳（纳秒）
}

// NewPortalEntity 创建一个传送门实体
// 参数:
//   - manager: EntityManager 实例
//   - spec: 平面、锚点、颜色
//   - cfg: 传送门外观配置（模型 URI、缩放、触摸半径）
//
// 返回: 创建的实体ID
func NewPortalEntity(manager *ecs.EntityManager, spec PortalSpec, cfg config.PortalConfig) ecs.EntityID {
	id := manager.CreateEntity()

	pose := ar.IdentityPose()
	if spec.Anchor != nil {
		pose = spec.Anchor.Pose()
	}

	manager.AddComponent(id, &components.PortalComponent{
		PlaneID:   spec.PlaneID,
		Pose:      pose,
		Color:     spec.Color,
		SpawnedAt: spec.SpawnedAt,
	})

	manager.AddComponent(id, &components.AnchorComponent{
		Anchor: spec.Anchor,
	})

	manager.AddComponent(id, &components.TransformComponent{
		Pose: pose,
	})

	// 取色结果作为颜色覆盖，同一模板可以渲染出不同颜色
	color := spec.Color
	manager.AddComponent(id, &components.RenderableComponent{
		TemplateURI:   cfg.ModelURI,
		Scale:         cfg.Scale,
		ColorOverride: &color,
		Highlight:     spawnHighlight,
		GrowIn:        true,
		LiesFlat:      true,
	})

	manager.AddComponent(id, &components.TouchableComponent{
		Radius:    cfg.TouchRadius,
		IsEnabled: true,
	})

	return id
}
