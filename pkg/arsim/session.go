// Package arsim 桌面端的模拟 AR 引擎
//
// 它不做任何真实的追踪：相机位姿由键盘/拖动控制，平面按配置的时间表出现、
// 丢失和恢复，命中测试是针孔射线与有界水平矩形求交，相机图像是按视线方向
// 着色的合成 YUV_420_888 图像（NV21 交错色度，行跨度带填充）。
// 所有随机性来自配置的种子，同样的输入序列得到同样的帧序列。
package arsim

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/config"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrSessionClosed 会话已关闭
var ErrSessionClosed = errors.New("session closed")

const (
	// initialPitch 启动时相机略微朝下，能看到地面
	initialPitch = -0.6
	// maxPitch 俯仰角限制
	maxPitch = 80 * math.Pi / 180
	// relockAfter 平面丢失追踪多久后恢复
	relockAfter = 3 * time.Second
	// swayAmplitude 手持抖动幅度（米）
	swayAmplitude = 0.004
)

// Session 模拟 AR 会话，实现 ar.Session
type Session struct {
	cfg     config.SimConfig
	pinhole ar.Pinhole
	rng     *rand.Rand

	frameIndex int64
	frameNanos int64
	yaw, pitch float64
	viewportW  int
	viewportH  int

	planes    []*simPlane
	swayPhase float64

	paused    bool
	closed    bool
	imageOpen bool
	latest    *simFrame
}

// NewSession 创建模拟会话
func NewSession(cfg config.SimConfig, fovYDegrees float64) (*Session, error) {
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FrameRate)
	}
	if cfg.ImageWidth < 2 || cfg.ImageHeight < 2 || cfg.ImageWidth%2 != 0 || cfg.ImageHeight%2 != 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", cfg.ImageWidth, cfg.ImageHeight)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Session{
		cfg:        cfg,
		pinhole:    ar.NewPinhole(fovYDegrees),
		rng:        rng,
		frameNanos: int64(time.Second) / int64(cfg.FrameRate),
		pitch:      initialPitch,
		viewportW:  cfg.ImageWidth,
		viewportH:  cfg.ImageHeight,
		swayPhase:  rng.Float64() * 2 * math.Pi,
	}

	for i, spec := range cfg.Planes {
		c := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
		if spec.Color != "" {
			parsed, err := colorful.Hex(spec.Color)
			if err != nil {
				return nil, fmt.Errorf("plane %d color: %w", i, err)
			}
			c = parsed
		}
		// 引擎句柄是不透明的，这里用随机值模拟
		s.planes = append(s.planes, &simPlane{
			key:   ar.PlaneKey(rng.Uint64()),
			spec:  spec,
			color: c,
			state: ar.TrackingStatePaused,
		})
	}

	log.Printf("[arsim] Session created: seed=%d, %d planes, %dfps, warmup=%d frames",
		cfg.Seed, len(s.planes), cfg.FrameRate, cfg.WarmupFrames)
	return s, nil
}

// Rotate 转动相机（弧度），俯仰角被限制在 ±80°
func (s *Session) Rotate(dYaw, dPitch float64) {
	s.yaw = math.Mod(s.yaw+dYaw, 2*math.Pi)
	s.pitch = math.Max(-maxPitch, math.Min(maxPitch, s.pitch+dPitch))
}

// Orientation 返回当前偏航、俯仰角
func (s *Session) Orientation() (yaw, pitch float64) {
	return s.yaw, s.pitch
}

// SetViewport 设置命中测试和投影使用的屏幕尺寸
func (s *Session) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		s.viewportW, s.viewportH = width, height
	}
}

// Pause 暂停会话（应用进入后台）
func (s *Session) Pause() {
	if !s.paused {
		log.Printf("[arsim] Session paused at frame %d", s.frameIndex)
	}
	s.paused = true
}

// Resume 恢复会话
func (s *Session) Resume() {
	if s.paused {
		log.Printf("[arsim] Session resumed at frame %d", s.frameIndex)
	}
	s.paused = false
}

// Close 关闭会话，之后的 Update 返回 ErrSessionClosed
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, p := range s.planes {
		for _, a := range p.anchors {
			a.Detach()
		}
	}
	log.Printf("[arsim] Session closed after %d frames", s.frameIndex)
	return nil
}

// Update 推进一帧
func (s *Session) Update() (ar.TrackedFrame, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.paused {
		return nil, ar.ErrSessionPaused
	}

	s.frameIndex++
	ts := s.frameIndex * s.frameNanos
	elapsed := time.Duration(ts)

	for _, p := range s.planes {
		p.advance(elapsed)
	}

	camState := ar.TrackingStateTracking
	if s.frameIndex <= int64(s.cfg.WarmupFrames) {
		camState = ar.TrackingStatePaused
	}

	f := &simFrame{
		session:   s,
		timestamp: ts,
		camera: &simCamera{
			pose:    s.cameraPose(elapsed),
			state:   camState,
			pinhole: s.pinhole,
		},
		width:  s.viewportW,
		height: s.viewportH,
	}
	for _, p := range s.planes {
		if p.detected {
			f.planes = append(f.planes, p)
		}
	}
	s.latest = f
	return f, nil
}

// cameraPose 当前相机位姿：固定高度 + 轻微手持抖动
func (s *Session) cameraPose(elapsed time.Duration) ar.Pose {
	t := elapsed.Seconds()
	sway := ar.Vec3{
		X: swayAmplitude * math.Sin(1.3*t+s.swayPhase),
		Y: swayAmplitude * math.Sin(0.9*t+2*s.swayPhase),
	}
	return ar.Pose{
		Position: ar.Vec3{Y: s.cfg.CameraHeight}.Add(sway),
		Rotation: ar.QuatFromYawPitch(s.yaw, s.pitch),
	}
}

// hitTest 射线与所有已检测且在追踪的平面求交，由近及远
func (s *Session) hitTest(origin, dir ar.Vec3) []ar.HitResult {
	var hits []ar.HitResult
	for _, p := range s.planes {
		if !p.detected || p.state != ar.TrackingStateTracking {
			continue
		}
		point, dist, ok := p.intersect(origin, dir)
		if !ok {
			continue
		}
		// 交点位姿：Y 轴为平面法线，-Z 朝向相机
		facing := math.Atan2(origin.X-point.X, origin.Z-point.Z)
		hits = append(hits, ar.HitResult{
			Pose:     ar.Pose{Position: point, Rotation: ar.QuatFromAxisAngle(ar.Vec3{Y: 1}, facing+math.Pi)},
			Distance: dist,
			PlaneKey: p.key,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
