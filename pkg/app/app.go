// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/arportal/pkg/arsim"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/game"
	"github.com/decker502/arportal/pkg/scenes"
	"github.com/decker502/arportal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// appName 存档目录名
const appName = "arportal"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 游戏配置路径，为空时使用 config.DefaultGameConfigPath
	ConfigPath string
	// AssetsPath 资源清单路径，为空时使用 config.DefaultAssetManifestPath
	AssetsPath string
	// Seed 覆盖模拟引擎的随机种子，0 表示使用配置文件中的值
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.GameConfig
	sceneManager *game.SceneManager
	scene        *scenes.ARScene
	verbose      bool
	focused      bool
	closed       bool
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultGameConfigPath
	}
	assetsPath := cfg.AssetsPath
	if assetsPath == "" {
		assetsPath = config.DefaultAssetManifestPath
	}

	gameConfig, err := config.LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	if cfg.Seed != 0 {
		gameConfig.Sim.Seed = cfg.Seed
	}
	log.Printf("[Config] Loaded %s", configPath)

	manifest, err := config.LoadAssetManifest(assetsPath)
	if err != nil {
		return nil, fmt.Errorf("资源清单加载失败: %w", err)
	}
	log.Printf("[Config] Loaded %d assets from %s", len(manifest.Assets), assetsPath)

	settings, score := openPersistence()

	// 初始化音频上下文
	audioContext := audio.NewContext(game.AudioSampleRate)
	audioManager := game.NewAudioManager(audioContext, settings)
	log.Printf("[App] AudioManager initialized")

	session, err := arsim.NewSession(gameConfig.Sim, gameConfig.Render.FovYDegrees)
	if err != nil {
		return nil, fmt.Errorf("AR 会话创建失败: %w", err)
	}

	scene, err := scenes.NewARScene(scenes.ARSceneDeps{
		Config:   gameConfig,
		Session:  session,
		Assets:   game.NewAssetLoader(manifest),
		Score:    score,
		Settings: settings,
		Sounds:   audioManager,
	})
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	return &App{
		cfg:          gameConfig,
		sceneManager: sceneManager,
		scene:        scene,
		verbose:      cfg.Verbose,
		focused:      true,
	}, nil
}

// openPersistence 打开存档；存储不可用时降级为仅内存模式
func openPersistence() (*game.SettingsManager, *game.ScoreManager) {
	var manager *gdata.Manager
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir %q unavailable: %v", utils.GetStoragePath(), err)
	} else if m, err := gdata.Open(gdata.Config{AppName: appName}); err != nil {
		log.Printf("[App] Warning: gdata unavailable, running without saves: %v", err)
	} else {
		manager = m
	}

	settings, err := game.NewSettingsManager(manager)
	if err != nil {
		log.Printf("[App] Warning: settings fallback to defaults: %v", err)
		settings, _ = game.NewSettingsManager(nil)
	}
	score, err := game.NewScoreManager(manager)
	if err != nil {
		log.Printf("[App] Warning: score record fallback to empty: %v", err)
		score, _ = game.NewScoreManager(nil)
	}
	return settings, score
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 失去焦点（移动端切到后台）时暂停会话
	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		a.sceneManager.SetPaused(!focused)
		log.Printf("[App] Focus changed: %v", focused)
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Render.ScreenWidth, a.cfg.Render.ScreenHeight
}

// WindowSize 桌面窗口初始尺寸
func (a *App) WindowSize() (int, int) {
	return a.cfg.Render.ScreenWidth, a.cfg.Render.ScreenHeight
}

// Save 保存成绩与设置
func (a *App) Save() bool {
	return a.sceneManager.SaveCurrent()
}

// Close 保存并关闭 AR 会话，可重复调用
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if !a.Save() {
		log.Printf("[App] Warning: save on exit failed")
	}
	return a.scene.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
