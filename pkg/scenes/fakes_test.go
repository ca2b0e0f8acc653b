package scenes

import (
	"errors"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/game"
	"github.com/decker502/arportal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// fakeImage 4x4 纯色 NV21 图像
type fakeImage struct {
	y, vu  []byte
	closed int
}

func newFakeImage(luma, cb, cr byte) *fakeImage {
	img := &fakeImage{y: make([]byte, 16), vu: make([]byte, 8)}
	for i := range img.y {
		img.y[i] = luma
	}
	for i := 0; i < len(img.vu); i += 2 {
		img.vu[i] = cr
		img.vu[i+1] = cb
	}
	return img
}

func (f *fakeImage) Width() int  { return 4 }
func (f *fakeImage) Height() int { return 4 }
func (f *fakeImage) Planes() [3]ar.ImagePlane {
	return [3]ar.ImagePlane{
		{Data: f.y, RowStride: 4, PixelStride: 1},
		{Data: f.vu[1:], RowStride: 4, PixelStride: 2},
		{Data: f.vu[:7], RowStride: 4, PixelStride: 2},
	}
}
func (f *fakeImage) Close() error {
	f.closed++
	return nil
}

type fakeAnchor struct {
	pose     ar.Pose
	detached bool
}

func (a *fakeAnchor) Pose() ar.Pose { return a.pose }
func (a *fakeAnchor) TrackingState() ar.TrackingState {
	if a.detached {
		return ar.TrackingStateStopped
	}
	return ar.TrackingStateTracking
}
func (a *fakeAnchor) Detach() { a.detached = true }

type fakePlane struct {
	key       ar.PlaneKey
	anchorErr error
	anchors   []*fakeAnchor
}

func (p *fakePlane) Key() ar.PlaneKey                { return p.key }
func (p *fakePlane) TrackingState() ar.TrackingState { return ar.TrackingStateTracking }
func (p *fakePlane) AnchorCount() int                { return len(p.anchors) }
func (p *fakePlane) CreateAnchor(pose ar.Pose) (ar.Anchor, error) {
	if p.anchorErr != nil {
		return nil, p.anchorErr
	}
	a := &fakeAnchor{pose: pose}
	p.anchors = append(p.anchors, a)
	return a, nil
}

type fakeCamera struct {
	state ar.TrackingState
}

func (c *fakeCamera) Pose() ar.Pose                   { return ar.IdentityPose() }
func (c *fakeCamera) TrackingState() ar.TrackingState { return c.state }
func (c *fakeCamera) Project(world ar.Vec3, width, height int) (ar.Projection, bool) {
	return ar.NewPinhole(60).Project(ar.IdentityPose(), world, width, height)
}

type fakeFrame struct {
	ts       int64
	camera   *fakeCamera
	planes   []*fakePlane
	image    *fakeImage
	acquires int
	hitCalls int
}

func (f *fakeFrame) TimestampNanos() int64 { return f.ts }
func (f *fakeFrame) Camera() ar.Camera     { return f.camera }
func (f *fakeFrame) UpdatedPlanes() []ar.Plane {
	out := make([]ar.Plane, len(f.planes))
	for i, p := range f.planes {
		out[i] = p
	}
	return out
}

// HitTest 每个平面在相机正前方 2m 处各有一个交点
func (f *fakeFrame) HitTest(x, y float64) []ar.HitResult {
	f.hitCalls++
	var hits []ar.HitResult
	for i, p := range f.planes {
		d := 2 + float64(i)
		hits = append(hits, ar.HitResult{Pose: ar.Translation(0, 0, -d), Distance: d, PlaneKey: p.key})
	}
	return hits
}

func (f *fakeFrame) AcquireCameraImage() (ar.CameraImage, error) {
	f.acquires++
	if f.image == nil {
		return nil, ar.ErrImageNotAvailable
	}
	return f.image, nil
}

// fakeSession 按时间戳顺序产出帧
type fakeSession struct {
	planes   []*fakePlane
	tracking bool
	image    *fakeImage
	ts       int64
	frames   []*fakeFrame
	paused   bool
	closed   bool
	rotated  [2]float64
}

func (s *fakeSession) Update() (ar.TrackedFrame, error) {
	if s.closed {
		return nil, errors.New("closed")
	}
	if s.paused {
		return nil, ar.ErrSessionPaused
	}
	s.ts += 200_000_000
	state := ar.TrackingStatePaused
	if s.tracking {
		state = ar.TrackingStateTracking
	}
	f := &fakeFrame{ts: s.ts, camera: &fakeCamera{state: state}, planes: s.planes, image: s.image}
	s.frames = append(s.frames, f)
	return f, nil
}

func (s *fakeSession) SetViewport(width, height int) {}
func (s *fakeSession) Pause()                        { s.paused = true }
func (s *fakeSession) Resume()                       { s.paused = false }
func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}
func (s *fakeSession) Rotate(dYaw, dPitch float64) {
	s.rotated[0] += dYaw
	s.rotated[1] += dPitch
}

func (s *fakeSession) lastFrame() *fakeFrame {
	return s.frames[len(s.frames)-1]
}

// fakeAssets 可控的资源就绪状态
type fakeAssets struct {
	ready    map[string]*game.Template
	requests map[string]int
}

func newFakeAssets(uris ...string) *fakeAssets {
	a := &fakeAssets{ready: make(map[string]*game.Template), requests: make(map[string]int)}
	for _, uri := range uris {
		a.ready[uri] = &game.Template{URI: uri}
	}
	return a
}

func (a *fakeAssets) Request(uri string) { a.requests[uri]++ }
func (a *fakeAssets) Get(uri string) (*game.Template, bool) {
	tpl, ok := a.ready[uri]
	return tpl, ok
}

// fakeInput 预设的指针序列与按键
type fakeInput struct {
	pointer []utils.PointerSample
	pressed map[ebiten.Key]bool
	just    map[ebiten.Key]bool
}

func (in *fakeInput) Pointer() utils.PointerSample {
	if len(in.pointer) == 0 {
		return utils.PointerSample{}
	}
	p := in.pointer[0]
	in.pointer = in.pointer[1:]
	return p
}

func (in *fakeInput) KeyJustPressed(key ebiten.Key) bool {
	if in.just[key] {
		delete(in.just, key)
		return true
	}
	return false
}

func (in *fakeInput) KeyPressed(key ebiten.Key) bool { return in.pressed[key] }

type fakeSounds struct {
	played []game.SoundID
}

func (s *fakeSounds) PlaySound(id game.SoundID) bool {
	s.played = append(s.played, id)
	return true
}
