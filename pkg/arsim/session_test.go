package arsim

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/camera"
	"github.com/decker502/arportal/pkg/config"
)

// testSimConfig 两个上下叠放、覆盖相机前方的平面，第二个会短暂丢失追踪
func testSimConfig() config.SimConfig {
	return config.SimConfig{
		Seed:         42,
		WarmupFrames: 3,
		FrameRate:    10,
		CameraHeight: 1.4,
		ImageWidth:   32,
		ImageHeight:  48,
		Planes: []config.PlaneSpec{
			{AppearAfter: 0, Center: [3]float64{0, 0, -1}, Extent: [2]float64{6, 6}, Color: "#c03030"},
			{AppearAfter: 500 * time.Millisecond, LoseAfter: 2 * time.Second, Center: [3]float64{0, 0.7, -1}, Extent: [2]float64{6, 6}, Color: "#3030c0"},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testSimConfig(), 60)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	return s
}

// advance 推进 n 帧，返回最后一帧
func advance(t *testing.T, s *Session, n int) ar.TrackedFrame {
	t.Helper()
	var f ar.TrackedFrame
	for i := 0; i < n; i++ {
		var err error
		if f, err = s.Update(); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
	return f
}

func TestSessionWarmupAndTimestamps(t *testing.T) {
	s := newTestSession(t)

	var last int64
	for i := 1; i <= 5; i++ {
		f := advance(t, s, 1)
		if f.TimestampNanos() <= last {
			t.Fatalf("frame %d: timestamp %d not increasing", i, f.TimestampNanos())
		}
		if f.TimestampNanos()-last != int64(100*time.Millisecond) {
			t.Errorf("frame %d: step %d, want 100ms", i, f.TimestampNanos()-last)
		}
		last = f.TimestampNanos()

		want := ar.TrackingStateTracking
		if i <= 3 {
			want = ar.TrackingStatePaused
		}
		if got := f.Camera().TrackingState(); got != want {
			t.Errorf("frame %d: camera %v, want %v", i, got, want)
		}
		if want != ar.TrackingStateTracking && len(f.HitTest(16, 24)) != 0 {
			t.Errorf("frame %d: hit test returned results during warmup", i)
		}
	}
}

func TestSessionPlaneSchedule(t *testing.T) {
	s := newTestSession(t)

	f := advance(t, s, 1) // 100ms
	if n := len(f.UpdatedPlanes()); n != 1 {
		t.Fatalf("planes at 100ms = %d, want 1", n)
	}

	f = advance(t, s, 4) // 500ms
	planes := f.UpdatedPlanes()
	if len(planes) != 2 {
		t.Fatalf("planes at 500ms = %d, want 2", len(planes))
	}
	if planes[0].Key() == planes[1].Key() {
		t.Error("plane keys must be distinct")
	}

	table := planes[1]
	anchor, err := table.CreateAnchor(ar.Translation(0, 0.7, -1))
	if err != nil {
		t.Fatalf("CreateAnchor() error: %v", err)
	}
	if table.AnchorCount() != 1 {
		t.Errorf("AnchorCount = %d, want 1", table.AnchorCount())
	}

	advance(t, s, 15) // 2s：丢失追踪
	if table.TrackingState() != ar.TrackingStatePaused {
		t.Fatalf("plane state at 2s = %v, want paused", table.TrackingState())
	}
	if anchor.TrackingState() != ar.TrackingStatePaused {
		t.Errorf("anchor should follow plane state, got %v", anchor.TrackingState())
	}
	if _, err := table.CreateAnchor(ar.IdentityPose()); !errors.Is(err, ar.ErrNotTracking) {
		t.Errorf("CreateAnchor on paused plane: err = %v, want ErrNotTracking", err)
	}

	advance(t, s, 30) // 5s：恢复
	if table.TrackingState() != ar.TrackingStateTracking {
		t.Errorf("plane state at 5s = %v, want tracking", table.TrackingState())
	}

	anchor.Detach()
	anchor.Detach()
	if anchor.TrackingState() != ar.TrackingStateStopped || table.AnchorCount() != 0 {
		t.Errorf("detached anchor: state=%v count=%d", anchor.TrackingState(), table.AnchorCount())
	}
}

func TestSessionHitTestNearestFirst(t *testing.T) {
	s := newTestSession(t)
	s.Rotate(0, -math.Pi) // 被限制在 -80°
	if _, pitch := s.Orientation(); math.Abs(pitch+maxPitch) > 1e-12 {
		t.Fatalf("pitch = %v, want clamped to %v", pitch, -maxPitch)
	}

	f := advance(t, s, 6)
	planes := f.UpdatedPlanes()
	hits := f.HitTest(16, 24)

	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2 (table above floor)", len(hits))
	}
	if hits[0].Distance >= hits[1].Distance {
		t.Errorf("hits not nearest-first: %v, %v", hits[0].Distance, hits[1].Distance)
	}
	if hits[0].PlaneKey != planes[1].Key() || hits[1].PlaneKey != planes[0].Key() {
		t.Error("nearest hit should be on the table plane")
	}
	if y := hits[0].Pose.Position.Y; math.Abs(y-0.7) > 1e-9 {
		t.Errorf("table hit Y = %v, want 0.7", y)
	}

	filtered := ar.HitsOnPlane(hits, planes[0].Key())
	if len(filtered) != 1 || math.Abs(filtered[0].Pose.Position.Y) > 1e-9 {
		t.Errorf("floor hits = %+v", filtered)
	}

	// 朝天看没有交点
	s.Rotate(0, 2*math.Pi)
	f = advance(t, s, 1)
	if hits := f.HitTest(16, 24); len(hits) != 0 {
		t.Errorf("looking up: %d hits, want 0", len(hits))
	}
}

func TestSessionCameraImage(t *testing.T) {
	s := newTestSession(t)
	s.Rotate(0, -math.Pi)
	f := advance(t, s, 6)

	img, err := f.AcquireCameraImage()
	if err != nil {
		t.Fatalf("AcquireCameraImage() error: %v", err)
	}
	if _, err := f.AcquireCameraImage(); !errors.Is(err, ar.ErrImageNotAvailable) {
		t.Errorf("second acquire: err = %v, want ErrImageNotAvailable", err)
	}

	planes := img.Planes()
	if planes[0].RowStride != 32+rowPadding || planes[1].PixelStride != 2 || planes[2].PixelStride != 2 {
		t.Errorf("unexpected layout: %+v", []ar.ImagePlane{planes[0], planes[1], planes[2]})
	}

	// 中心看到的是蓝色桌面
	c, err := camera.SampleCenter(img)
	if err != nil {
		t.Fatalf("SampleCenter() error: %v", err)
	}
	if !(c.B > c.R && c.B > c.G) {
		t.Errorf("center color = %v, want blue-dominant", c.Hex())
	}

	if err := img.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := img.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	img, err = f.AcquireCameraImage()
	if err != nil {
		t.Fatalf("acquire after close: %v", err)
	}
	img.Close()

	// 过期帧不再提供图像
	advance(t, s, 1)
	if _, err := f.AcquireCameraImage(); !errors.Is(err, ar.ErrImageNotAvailable) {
		t.Errorf("stale frame acquire: err = %v, want ErrImageNotAvailable", err)
	}
}

func TestSessionDeterministic(t *testing.T) {
	a, b := newTestSession(t), newTestSession(t)

	fa, fb := advance(t, a, 8), advance(t, b, 8)
	pa, pb := fa.UpdatedPlanes(), fb.UpdatedPlanes()
	for i := range pa {
		if pa[i].Key() != pb[i].Key() {
			t.Fatalf("plane %d keys differ", i)
		}
	}
	if fa.Camera().Pose() != fb.Camera().Pose() {
		t.Error("camera poses differ")
	}

	ia, _ := fa.AcquireCameraImage()
	ib, _ := fb.AcquireCameraImage()
	defer ia.Close()
	defer ib.Close()
	if !bytes.Equal(ia.Planes()[0].Data, ib.Planes()[0].Data) || !bytes.Equal(ia.Planes()[1].Data, ib.Planes()[1].Data) {
		t.Error("images differ for identical sessions")
	}
}

func TestSessionPauseResumeClose(t *testing.T) {
	s := newTestSession(t)
	f := advance(t, s, 5)
	ts := f.TimestampNanos()

	s.Pause()
	if _, err := s.Update(); !errors.Is(err, ar.ErrSessionPaused) {
		t.Fatalf("Update() while paused: err = %v", err)
	}

	s.Resume()
	f = advance(t, s, 1)
	if f.TimestampNanos() != ts+int64(100*time.Millisecond) {
		t.Errorf("timestamp after resume = %d, want %d", f.TimestampNanos(), ts+int64(100*time.Millisecond))
	}

	anchor, err := f.UpdatedPlanes()[0].CreateAnchor(ar.IdentityPose())
	if err != nil {
		t.Fatalf("CreateAnchor() error: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := s.Update(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Update() after close: err = %v", err)
	}
	if anchor.TrackingState() != ar.TrackingStateStopped {
		t.Error("anchors should be detached on close")
	}
	if _, err := f.AcquireCameraImage(); !errors.Is(err, ar.ErrImageNotAvailable) {
		t.Error("no images after close")
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.SimConfig)
	}{
		{"zero frame rate", func(c *config.SimConfig) { c.FrameRate = 0 }},
		{"odd width", func(c *config.SimConfig) { c.ImageWidth = 33 }},
		{"bad plane color", func(c *config.SimConfig) { c.Planes[0].Color = "red" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSimConfig()
			tt.mutate(&cfg)
			if _, err := NewSession(cfg, 60); err == nil {
				t.Error("expected error")
			}
		})
	}
}
