package systems

import (
	"log"
	"math"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
)

// BallFollowSystem 让小球挂在相机上，并处理玩家按住小球拖动
type BallFollowSystem struct {
	entityManager *ecs.EntityManager
}

// NewBallFollowSystem 创建小球跟随系统
func NewBallFollowSystem(em *ecs.EntityManager) *BallFollowSystem {
	return &BallFollowSystem{entityManager: em}
}

// Update 把每个小球的世界位姿设为 相机位姿 ∘ 当前本地偏移
func (s *BallFollowSystem) Update(cam ar.Camera) {
	if cam == nil {
		return
	}
	camPose := cam.Pose()

	for _, id := range s.balls() {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		transform.Pose = camPose.Compose(ball.Offset())
	}
}

// Grab 触摸点落在小球投影圆内时按住小球
//
// 参数：
//   - screenX, screenY: 按下位置（像素）
//   - cam: 当前相机，未追踪时不响应
//   - width, height: 屏幕尺寸
//
// 返回：是否按住了小球
func (s *BallFollowSystem) Grab(screenX, screenY float64, cam ar.Camera, width, height int) bool {
	if cam == nil || cam.TrackingState() != ar.TrackingStateTracking {
		return false
	}

	grabbed := false
	for _, id := range s.balls() {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		proj, ok := cam.Project(transform.Pose.Position, width, height)
		if !ok {
			continue
		}
		radius := math.Max(ball.TouchRadius*proj.PixelsPerMetre, minTouchRadiusPx)
		if math.Hypot(screenX-proj.X, screenY-proj.Y) > radius {
			continue
		}
		ball.Held = true
		ball.DragOffset = ball.LocalOffset
		grabbed = true
		log.Printf("[BallFollowSystem] Ball %d grabbed at (%.0f, %.0f)", id, screenX, screenY)
	}
	return grabbed
}

// DragTo 让被按住的小球跟随手指
//
// 小球停在手指射线上，深度保持静止位置的深度，位姿立即生效。
func (s *BallFollowSystem) DragTo(screenX, screenY float64, cam ar.Camera, width, height int) {
	if cam == nil {
		return
	}
	camPose := cam.Pose()

	for _, id := range s.balls() {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		if !ball.Held {
			continue
		}
		depth := -ball.LocalOffset.Position.Z

		// 视线中心在该深度处的投影给出屏幕中心与像素/米比例
		ref, ok := cam.Project(camPose.TransformPoint(ar.Vec3{Z: -depth}), width, height)
		if !ok {
			continue
		}
		ball.DragOffset = ar.Translation(
			(screenX-ref.X)/ref.PixelsPerMetre,
			-(screenY-ref.Y)/ref.PixelsPerMetre,
			-depth,
		)

		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		transform.Pose = camPose.Compose(ball.DragOffset)
	}
}

// Release 松手，小球在下一次 Update 时回到静止偏移
func (s *BallFollowSystem) Release() {
	for _, id := range s.balls() {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		if ball.Held {
			ball.Held = false
			ball.DragOffset = ball.LocalOffset
			log.Printf("[BallFollowSystem] Ball %d released", id)
		}
	}
}

func (s *BallFollowSystem) balls() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.BallComponent, *components.TransformComponent](s.entityManager)
}
