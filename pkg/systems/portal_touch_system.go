package systems

import (
	"log"
	"math"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/decker502/arportal/pkg/entities"
	"github.com/decker502/arportal/pkg/game"
)

// SoundPlayer 播放音效（game.AudioManager 实现该接口）
type SoundPlayer interface {
	PlaySound(id game.SoundID) bool
}

// minTouchRadiusPx 远处传送门投影很小时仍保证可以点中
const minTouchRadiusPx = 18.0

// PortalTouchSystem 把屏幕触摸映射到传送门并摧毁它
type PortalTouchSystem struct {
	entityManager *ecs.EntityManager
	state         *game.SpawnState
	sounds        SoundPlayer
}

// NewPortalTouchSystem 创建触摸系统，sounds 可为 nil
func NewPortalTouchSystem(em *ecs.EntityManager, state *game.SpawnState, sounds SoundPlayer) *PortalTouchSystem {
	return &PortalTouchSystem{
		entityManager: em,
		state:         state,
		sounds:        sounds,
	}
}

// HandleTouch 处理一次点击
//
// 在所有投影圆包含触摸点的存活传送门中选离相机最近的一个；
// 命中后计分、卸下锚点、销毁实体并播放音效。返回被摧毁的实体。
func (s *PortalTouchSystem) HandleTouch(screenX, screenY float64, cam ar.Camera, width, height int) (ecs.EntityID, bool) {
	if cam == nil || cam.TrackingState() != ar.TrackingStateTracking {
		return 0, false
	}

	var (
		best      ecs.EntityID
		bestDepth = math.Inf(1)
		found     bool
	)

	ids := ecs.GetEntitiesWith3[
		*components.PortalComponent,
		*components.TouchableComponent,
		*components.TransformComponent,
	](s.entityManager)

	for _, id := range ids {
		portal, _ := ecs.GetComponent[*components.PortalComponent](s.entityManager, id)
		touchable, _ := ecs.GetComponent[*components.TouchableComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		if portal.Destroyed || !touchable.IsEnabled {
			continue
		}
		if r, ok := ecs.GetComponent[*components.RenderableComponent](s.entityManager, id); ok && r.Hidden {
			continue
		}

		proj, ok := cam.Project(transform.Pose.Position, width, height)
		if !ok {
			continue
		}
		radius := math.Max(touchable.Radius*proj.PixelsPerMetre, minTouchRadiusPx)
		if math.Hypot(screenX-proj.X, screenY-proj.Y) > radius {
			continue
		}
		if proj.Depth < bestDepth {
			best, bestDepth, found = id, proj.Depth, true
		}
	}

	if !found {
		return 0, false
	}

	portal, _ := ecs.GetComponent[*components.PortalComponent](s.entityManager, best)
	if !OnPortalTouched(s.state, portal) {
		return 0, false
	}

	if touchable, ok := ecs.GetComponent[*components.TouchableComponent](s.entityManager, best); ok {
		touchable.IsEnabled = false
	}
	if anchor, ok := ecs.GetComponent[*components.AnchorComponent](s.entityManager, best); ok && anchor.Anchor != nil {
		anchor.Anchor.Detach()
	}
	if r, ok := ecs.GetComponent[*components.RenderableComponent](s.entityManager, best); ok {
		entities.NewPopEffectEntity(s.entityManager, portal.Pose, portal.Color, r.TemplateURI)
	}
	s.entityManager.DestroyEntity(best)

	if s.sounds != nil {
		s.sounds.PlaySound(game.SoundPortalPop)
	}

	log.Printf("[PortalTouchSystem] Destroyed portal %d on plane %d (score=%d, live=%d)",
		best, portal.PlaneID, s.state.Score(), s.state.LivePortals())
	return best, true
}
