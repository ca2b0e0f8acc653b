package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/camera"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/decker502/arportal/pkg/entities"
	"github.com/decker502/arportal/pkg/game"
	"github.com/decker502/arportal/pkg/systems"
	"github.com/decker502/arportal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// dragRadiansPerPixel 拖动转动相机的灵敏度
	dragRadiansPerPixel = 0.005
	// keyRadiansPerSecond 方向键转动相机的速度
	keyRadiansPerSecond = 1.2
)

// Steerable 可以被玩家转动的会话（桌面模拟引擎）
type Steerable interface {
	Rotate(dYaw, dPitch float64)
}

// Assets 场景使用的资源加载器（game.AssetLoader 实现该接口）
type Assets interface {
	Request(uri string)
	Get(uri string) (*game.Template, bool)
}

// ARSceneDeps 场景依赖
type ARSceneDeps struct {
	Config   *config.GameConfig
	Session  ar.Session
	Assets   Assets
	Score    *game.ScoreManager
	Settings *game.SettingsManager
	Sounds   systems.SoundPlayer // 可为 nil
	Input    InputSource         // 为 nil 时使用 ebiten 输入
}

// ARScene AR 传送门主场景
//
// 每帧从会话拉取一帧；相机未追踪时只刷新背景，不做任何决定。
// 追踪时解析平面编号、运行生成策略、应用生成结果，再运行各系统并处理触摸。
type ARScene struct {
	cfg      *config.GameConfig
	session  ar.Session
	assets   Assets
	score    *game.ScoreManager
	settings *game.SettingsManager
	sounds   systems.SoundPlayer
	input    InputSource
	gestures *utils.GestureTracker

	entityManager *ecs.EntityManager
	planes        *game.PlaneRegistry
	state         *game.SpawnState
	policy        *systems.PortalSpawnPolicy

	touchSystem  *systems.PortalTouchSystem
	ballSystem   *systems.BallFollowSystem
	anchorSystem *systems.AnchorSyncSystem
	renderSystem *systems.RenderSystem
	lifetime     *systems.LifetimeSystem

	width, height int
	pointerDown   bool
	holdingBall   bool
	lastCamera    ar.Camera
	lastSkip      systems.SkipReason
	tracking      bool
	paused        bool
	sessionErr    error
	newBest       bool
}

// NewARScene 创建主场景
func NewARScene(deps ARSceneDeps) (*ARScene, error) {
	if deps.Config == nil || deps.Session == nil || deps.Assets == nil {
		return nil, errors.New("ARScene requires config, session and assets")
	}

	fallback, err := colorful.Hex(deps.Config.Portal.FallbackColor)
	if err != nil {
		return nil, fmt.Errorf("invalid portal fallback color: %w", err)
	}

	input := deps.Input
	if input == nil {
		input = ebitenInput{}
	}

	em := ecs.NewEntityManager()
	state := game.NewSpawnState()

	s := &ARScene{
		cfg:           deps.Config,
		session:       deps.Session,
		assets:        deps.Assets,
		score:         deps.Score,
		settings:      deps.Settings,
		sounds:        deps.Sounds,
		input:         input,
		gestures:      utils.NewGestureTracker(),
		entityManager: em,
		planes:        game.NewPlaneRegistry(),
		state:         state,
		policy:        systems.NewPortalSpawnPolicy(deps.Config.Spawn, fallback),
		touchSystem:   systems.NewPortalTouchSystem(em, state, deps.Sounds),
		ballSystem:    systems.NewBallFollowSystem(em),
		anchorSystem:  systems.NewAnchorSyncSystem(em),
		renderSystem:  systems.NewRenderSystem(em, deps.Assets),
		lifetime:      systems.NewLifetimeSystem(em),
		width:         deps.Config.Render.ScreenWidth,
		height:        deps.Config.Render.ScreenHeight,
		lastSkip:      systems.SkipNotTracking,
	}
	s.session.SetViewport(s.width, s.height)

	// 提前发起加载，第一帧追踪时模板多半已就绪
	s.assets.Request(deps.Config.Ball.ModelURI)
	s.assets.Request(deps.Config.Portal.ModelURI)

	log.Printf("[ARScene] Created (%dx%d, spawn=%+v)", s.width, s.height, deps.Config.Spawn)
	return s, nil
}

// State 当前会话的生成状态（只读使用）
func (s *ARScene) State() *game.SpawnState {
	return s.state
}

// EntityManager 场景的实体管理器
func (s *ARScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// LastSkip 最近一帧的跳过原因
func (s *ARScene) LastSkip() systems.SkipReason {
	return s.lastSkip
}

// Update 推进一帧
func (s *ARScene) Update(deltaTime float64) {
	if s.paused {
		return
	}

	s.handleKeys(deltaTime)

	frame, err := s.session.Update()
	if err != nil {
		if !errors.Is(err, ar.ErrSessionPaused) && !errors.Is(err, s.sessionErr) {
			log.Printf("[ARScene] Session update failed: %v", err)
			s.sessionErr = err
		}
		return
	}

	img := &frameImage{frame: frame}
	defer img.Close()

	cam := frame.Camera()
	s.lastCamera = cam
	s.tracking = cam != nil && cam.TrackingState() == ar.TrackingStateTracking

	s.updateCameraFeed(img)

	if !s.tracking {
		s.lastSkip = systems.SkipNotTracking
		s.handlePointer(cam)
		return
	}

	s.runPolicy(frame, cam, img)

	s.anchorSystem.Update()
	s.ballSystem.Update(cam)
	s.renderSystem.Update(deltaTime)
	s.lifetime.Update(deltaTime)

	s.handlePointer(cam)
	s.entityManager.RemoveMarkedEntities()
}

// runPolicy 构造本帧输入并应用生成结果
func (s *ARScene) runPolicy(frame ar.TrackedFrame, cam ar.Camera, img *frameImage) {
	// 加载失败的资源在这里重试
	s.assets.Request(s.cfg.Ball.ModelURI)
	s.assets.Request(s.cfg.Portal.ModelURI)
	_, ballReady := s.assets.Get(s.cfg.Ball.ModelURI)
	_, portalReady := s.assets.Get(s.cfg.Portal.ModelURI)

	planes := frame.UpdatedPlanes()
	views := make([]systems.PlaneView, 0, len(planes))
	for _, p := range planes {
		views = append(views, systems.PlaneView{ID: s.planes.Resolve(p.Key()), Plane: p})
	}

	// 屏幕中心的命中测试每帧只做一次，再按平面过滤
	var centerHits []ar.HitResult
	hitDone := false

	in := systems.FrameInput{
		TimestampNanos: frame.TimestampNanos(),
		CameraTracking: true,
		Planes:         views,
		HitTest: func(v systems.PlaneView) []ar.HitResult {
			if !hitDone {
				hitDone = true
				centerHits = frame.HitTest(float64(s.width)/2, float64(s.height)/2)
			}
			return ar.HitsOnPlane(centerHits, v.Plane.Key())
		},
		SampleColor: func() (colorful.Color, bool) {
			return s.sampleColor(img)
		},
		BallReady:   ballReady,
		PortalReady: portalReady,
	}

	result := s.policy.OnTrackedFrame(s.state, in)
	if result.Skip != s.lastSkip {
		log.Printf("[ARScene] Spawn skip: %v -> %v", s.lastSkip, result.Skip)
	}
	s.lastSkip = result.Skip

	if result.PlaceBall {
		id := entities.NewBallEntity(s.entityManager, cam.Pose(), s.cfg.Ball)
		log.Printf("[ARScene] Ball placed (entity %d)", id)
		s.playSound(game.SoundBallPlaced)
	}

	for _, d := range result.Spawns {
		anchor, err := d.Plane.CreateAnchor(d.Pose)
		if err != nil {
			// 计数已经增加，撤销但不计分
			log.Printf("[ARScene] Failed to anchor portal on plane %d: %v", d.PlaneID, err)
			s.state.Release(d.PlaneID)
			continue
		}
		id := entities.NewPortalEntity(s.entityManager, entities.PortalSpec{
			PlaneID:   d.PlaneID,
			Anchor:    anchor,
			Color:     d.Color,
			SpawnedAt: frame.TimestampNanos(),
		}, s.cfg.Portal)
		log.Printf("[ARScene] Portal %d spawned on plane %d color=%s (live=%d)",
			id, d.PlaneID, d.Color.Hex(), s.state.LivePortals())
		s.playSound(game.SoundPortalSpawn)
	}
}

// sampleColor 取相机图像中心的颜色
func (s *ARScene) sampleColor(img *frameImage) (colorful.Color, bool) {
	ci, err := img.Get()
	if err != nil {
		log.Printf("[ARScene] Camera image unavailable for sampling: %v", err)
		return colorful.Color{}, false
	}
	c, err := camera.SampleCenter(ci)
	if err != nil {
		log.Printf("[ARScene] Color sampling failed: %v", err)
		return colorful.Color{}, false
	}
	return c, true
}

// updateCameraFeed 相机背景开启时把本帧图像上传为背景纹理
func (s *ARScene) updateCameraFeed(img *frameImage) {
	if !s.showCameraFeed() {
		s.renderSystem.ClearCameraFeed()
		return
	}
	ci, err := img.Get()
	if err != nil {
		return
	}
	if err := s.renderSystem.UpdateCameraFeed(ci); err != nil {
		log.Printf("[ARScene] Camera feed update failed: %v", err)
	}
}

func (s *ARScene) showCameraFeed() bool {
	if !s.cfg.Render.ShowCameraFeed {
		return false
	}
	return s.settings == nil || s.settings.GetSettings().ShowCameraFeed
}

// handleKeys 键盘：方向键转动相机，F1 调试面板，C 相机背景
func (s *ARScene) handleKeys(deltaTime float64) {
	if s.settings != nil {
		if s.input.KeyJustPressed(ebiten.KeyF1) {
			log.Printf("[ARScene] Debug overlay: %v", s.settings.ToggleDebugOverlay())
		}
		if s.input.KeyJustPressed(ebiten.KeyC) {
			log.Printf("[ARScene] Camera feed: %v", s.settings.ToggleCameraFeed())
		}
	}

	step := keyRadiansPerSecond * deltaTime
	var dYaw, dPitch float64
	if s.input.KeyPressed(ebiten.KeyArrowLeft) {
		dYaw += step
	}
	if s.input.KeyPressed(ebiten.KeyArrowRight) {
		dYaw -= step
	}
	if s.input.KeyPressed(ebiten.KeyArrowUp) {
		dPitch += step
	}
	if s.input.KeyPressed(ebiten.KeyArrowDown) {
		dPitch -= step
	}
	if dYaw != 0 || dPitch != 0 {
		s.steer(dYaw, dPitch)
	}
}

// handlePointer 点击摧毁传送门；在小球上按下则拖动小球，其余拖动转动相机
func (s *ARScene) handlePointer(cam ar.Camera) {
	p := s.input.Pointer()
	justPressed := p.Pressed && !s.pointerDown
	s.pointerDown = p.Pressed
	g := s.gestures.Update(p)

	if justPressed {
		s.holdingBall = s.ballSystem.Grab(float64(p.X), float64(p.Y), cam, s.width, s.height)
	}
	if s.holdingBall {
		// 按住小球期间的点击与拖动都交给小球
		if p.Pressed {
			s.ballSystem.DragTo(float64(p.X), float64(p.Y), cam, s.width, s.height)
		} else {
			s.releaseBall()
		}
		return
	}

	switch g.Kind {
	case utils.GestureTap:
		s.HandleTap(float64(g.X), float64(g.Y), cam)
	case utils.GestureDrag:
		// 拖动方向与画面移动方向一致
		s.steer(float64(g.DX)*dragRadiansPerPixel, float64(g.DY)*dragRadiansPerPixel)
	}
}

func (s *ARScene) releaseBall() {
	s.holdingBall = false
	s.ballSystem.Release()
}

// HandleTap 处理一次点击，返回是否摧毁了传送门
func (s *ARScene) HandleTap(x, y float64, cam ar.Camera) bool {
	if _, ok := s.touchSystem.HandleTouch(x, y, cam, s.width, s.height); !ok {
		return false
	}
	if s.score != nil && s.score.ObserveScore(s.state.Score()) && !s.newBest {
		s.newBest = true
		log.Printf("[ARScene] New best score: %d", s.state.Score())
	}
	return true
}

func (s *ARScene) steer(dYaw, dPitch float64) {
	if st, ok := s.session.(Steerable); ok {
		st.Rotate(dYaw, dPitch)
	}
}

func (s *ARScene) playSound(id game.SoundID) {
	if s.sounds != nil {
		s.sounds.PlaySound(id)
	}
}

// Draw 绘制背景、实体与 HUD
func (s *ARScene) Draw(screen *ebiten.Image) {
	if s.lastCamera != nil && s.tracking {
		s.renderSystem.Draw(screen, s.lastCamera)
	} else {
		s.renderSystem.Draw(screen, nil)
	}
	s.renderSystem.DrawHUD(screen, s.hud())
}

// hud 汇总 HUD 数据
func (s *ARScene) hud() systems.HUD {
	hud := systems.HUD{
		Score:    s.state.Score(),
		Live:     s.state.LivePortals(),
		Tracking: s.tracking,
		Loading:  s.lastSkip == systems.SkipAssetsLoading || (s.tracking && !s.state.BallPlaced),
	}
	if s.score != nil {
		hud.Best = s.score.BestScore()
	}
	if hud.Score > hud.Best {
		hud.Best = hud.Score
	}
	if s.settings != nil && s.settings.GetSettings().ShowDebugOverlay {
		hud.Debug = s.debugLines()
	}
	return hud
}

func (s *ARScene) debugLines() []string {
	lines := []string{
		fmt.Sprintf("FPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("planes=%d entities=%d skip=%v", s.planes.Len(), s.entityManager.EntityCount(), s.lastSkip),
	}
	for id := game.PlaneID(0); int(id) < s.planes.Len(); id++ {
		if n := s.state.PortalsOn(id); n > 0 {
			lines = append(lines, fmt.Sprintf("  plane %d: %d portals", id, n))
		}
	}
	return lines
}

// SaveOnExit 记录本次会话成绩并保存
func (s *ARScene) SaveOnExit() bool {
	if s.score != nil {
		s.score.RecordSession(s.state.Score())
	}
	return s.persist()
}

// persist 写入最高分与设置，不结算会话
func (s *ARScene) persist() bool {
	ok := true
	if s.score != nil {
		if err := s.score.Save(); err != nil {
			log.Printf("[ARScene] Failed to save score: %v", err)
			ok = false
		}
	}
	if s.settings != nil {
		if err := s.settings.Save(); err != nil {
			log.Printf("[ARScene] Failed to save settings: %v", err)
			ok = false
		}
	}
	return ok
}

// SetPaused 应用切到后台时暂停会话
//
// 移动端进入后台后进程可能被直接回收，因此暂停时先保存最高分。
func (s *ARScene) SetPaused(paused bool) {
	if paused == s.paused {
		return
	}
	s.paused = paused
	s.gestures.Reset()
	s.pointerDown = false
	s.releaseBall()
	if paused {
		s.session.Pause()
		s.persist()
	} else {
		s.session.Resume()
	}
}

// Close 关闭 AR 会话
func (s *ARScene) Close() error {
	return s.session.Close()
}
