package entities

import (
	"math"
	"testing"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/lucasb-eyer/go-colorful"
)

type stubAnchor struct{ pose ar.Pose }

func (a stubAnchor) Pose() ar.Pose                   { return a.pose }
func (a stubAnchor) TrackingState() ar.TrackingState { return ar.TrackingStateTracking }
func (a stubAnchor) Detach()                         {}

func TestNewPortalEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig().Portal
	color := colorful.Color{R: 0.1, G: 0.8, B: 0.3}

	id := NewPortalEntity(em, PortalSpec{
		PlaneID:   4,
		Anchor:    stubAnchor{pose: ar.Translation(1, 0, -2)},
		Color:     color,
		SpawnedAt: 123,
	}, cfg)

	portal, ok := ecs.GetComponent[*components.PortalComponent](em, id)
	if !ok {
		t.Fatal("portal component missing")
	}
	if portal.PlaneID != 4 || portal.Color != color || portal.SpawnedAt != 123 || portal.Destroyed {
		t.Errorf("unexpected portal: %+v", portal)
	}
	if portal.Pose.Position != (ar.Vec3{X: 1, Y: 0, Z: -2}) {
		t.Errorf("portal pose = %+v, want anchor pose", portal.Pose.Position)
	}

	transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)
	if transform.Pose.Position != portal.Pose.Position {
		t.Error("transform should start at the anchor pose")
	}

	r, ok := ecs.GetComponent[*components.RenderableComponent](em, id)
	if !ok || r.TemplateURI != cfg.ModelURI || r.ColorOverride == nil || *r.ColorOverride != color {
		t.Errorf("unexpected renderable: %+v", r)
	}

	touchable, ok := ecs.GetComponent[*components.TouchableComponent](em, id)
	if !ok || !touchable.IsEnabled || touchable.Radius != cfg.TouchRadius {
		t.Errorf("unexpected touchable: %+v", touchable)
	}

	if !ecs.HasComponent[*components.AnchorComponent](em, id) {
		t.Error("anchor component missing")
	}
}

func TestNewBallEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig().Ball

	// 相机向左转 90°，前方变为 -X
	cam := ar.Pose{Position: ar.Vec3{Y: 1.4}, Rotation: ar.QuatFromYawPitch(math.Pi/2, 0)}
	id := NewBallEntity(em, cam, cfg)

	transform, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok {
		t.Fatal("transform missing")
	}
	want := ar.Vec3{X: -1, Y: 1.0, Z: 0}
	if transform.Pose.Position.Sub(want).Length() > 1e-9 {
		t.Errorf("ball position = %+v, want %+v", transform.Pose.Position, want)
	}

	ball, ok := ecs.GetComponent[*components.BallComponent](em, id)
	if !ok || ball.Held || ball.TouchRadius != cfg.TouchRadius {
		t.Errorf("ball component = %+v, want resting with TouchRadius %v", ball, cfg.TouchRadius)
	}

	if ecs.HasComponent[*components.TouchableComponent](em, id) {
		t.Error("ball should not be touchable")
	}
	if ecs.HasComponent[*components.PortalComponent](em, id) {
		t.Error("ball must not count as a portal")
	}
}
