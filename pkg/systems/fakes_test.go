package systems

import (
	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/game"
)

// fakePlane 测试用平面
type fakePlane struct {
	key       ar.PlaneKey
	state     ar.TrackingState
	anchors   []*fakeAnchor
	anchorErr error
}

func newFakePlane(key ar.PlaneKey) *fakePlane {
	return &fakePlane{key: key, state: ar.TrackingStateTracking}
}

func (p *fakePlane) Key() ar.PlaneKey                { return p.key }
func (p *fakePlane) TrackingState() ar.TrackingState { return p.state }
func (p *fakePlane) AnchorCount() int                { return len(p.anchors) }

func (p *fakePlane) CreateAnchor(pose ar.Pose) (ar.Anchor, error) {
	if p.anchorErr != nil {
		return nil, p.anchorErr
	}
	a := &fakeAnchor{pose: pose, state: ar.TrackingStateTracking}
	p.anchors = append(p.anchors, a)
	return a, nil
}

// fakeAnchor 测试用锚点
type fakeAnchor struct {
	pose     ar.Pose
	state    ar.TrackingState
	detached int
}

func (a *fakeAnchor) Pose() ar.Pose                   { return a.pose }
func (a *fakeAnchor) TrackingState() ar.TrackingState { return a.state }
func (a *fakeAnchor) Detach() {
	a.detached++
	a.state = ar.TrackingStateStopped
}

// fakeCamera 用针孔模型投影的测试相机
type fakeCamera struct {
	pose    ar.Pose
	state   ar.TrackingState
	pinhole ar.Pinhole
}

func newFakeCamera(pose ar.Pose) *fakeCamera {
	return &fakeCamera{pose: pose, state: ar.TrackingStateTracking, pinhole: ar.NewPinhole(60)}
}

func (c *fakeCamera) Pose() ar.Pose                   { return c.pose }
func (c *fakeCamera) TrackingState() ar.TrackingState { return c.state }
func (c *fakeCamera) Project(world ar.Vec3, width, height int) (ar.Projection, bool) {
	return c.pinhole.Project(c.pose, world, width, height)
}

// fakeSounds 记录播放过的音效
type fakeSounds struct {
	played []game.SoundID
}

func (s *fakeSounds) PlaySound(id game.SoundID) bool {
	s.played = append(s.played, id)
	return true
}
