package config

import (
	"fmt"
	"os"
	"time"

	"github.com/decker502/arportal/pkg/embedded"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// DefaultGameConfigPath 默认配置文件路径（嵌入资源）
const DefaultGameConfigPath = "data/config.yaml"

// SpawnMode 每帧最多生成几个传送门
type SpawnMode string

const (
	// SpawnModeOne 每帧最多生成一个传送门
	SpawnModeOne SpawnMode = "one"
	// SpawnModeAll 每帧为所有符合条件的平面各生成一个传送门
	SpawnModeAll SpawnMode = "all"
)

// SpawnConfig 传送门生成策略参数
type SpawnConfig struct {
	MaxPortalCount         int           `yaml:"maxPortalCount"`         // 场上存活传送门总上限
	MaxPortalCountPerPlane int           `yaml:"maxPortalCountPerPlane"` // 单个平面上的传送门上限
	MinSpawnInterval       time.Duration `yaml:"minSpawnInterval"`       // 两次生成之间的最小帧时钟间隔
	SpawnsPerFrame         SpawnMode     `yaml:"spawnsPerFrame"`         // one | all
}

// MinSpawnIntervalNanos 以纳秒表示的最小生成间隔
func (c SpawnConfig) MinSpawnIntervalNanos() int64 {
	return c.MinSpawnInterval.Nanoseconds()
}

// BallConfig 跟随相机的小球
type BallConfig struct {
	ModelURI    string     `yaml:"modelUri"`
	LocalOffset [3]float64 `yaml:"localOffset"` // 相对相机的固定偏移（米）
	Scale       float64    `yaml:"scale"`
	TouchRadius float64    `yaml:"touchRadius"` // 按住拖动的判定半径（米）
}

// PortalConfig 传送门外观与触摸参数
type PortalConfig struct {
	ModelURI      string  `yaml:"modelUri"`
	Scale         float64 `yaml:"scale"`
	TouchRadius   float64 `yaml:"touchRadius"`   // 触摸判定半径（米）
	FallbackColor string  `yaml:"fallbackColor"` // 相机取色失败时使用的颜色
}

// RenderConfig 渲染参数
type RenderConfig struct {
	ScreenWidth    int     `yaml:"screenWidth"`
	ScreenHeight   int     `yaml:"screenHeight"`
	FovYDegrees    float64 `yaml:"fovYDegrees"`
	ShowCameraFeed bool    `yaml:"showCameraFeed"`
}

// PlaneSpec 模拟器中的一个水平平面
type PlaneSpec struct {
	AppearAfter time.Duration `yaml:"appearAfter"` // 会话开始多久后被检测到
	LoseAfter   time.Duration `yaml:"loseAfter"`   // 多久后丢失追踪，0 表示永不丢失
	Center      [3]float64    `yaml:"center"`
	Extent      [2]float64    `yaml:"extent"` // X/Z 方向尺寸（米）
	Color       string        `yaml:"color"`
}

// SimConfig 桌面模拟 AR 引擎参数
type SimConfig struct {
	Seed         int64       `yaml:"seed"`
	WarmupFrames int         `yaml:"warmupFrames"` // 相机开始追踪前的帧数
	FrameRate    int         `yaml:"frameRate"`
	CameraHeight float64     `yaml:"cameraHeight"`
	ImageWidth   int         `yaml:"imageWidth"`
	ImageHeight  int         `yaml:"imageHeight"`
	Planes       []PlaneSpec `yaml:"planes"`
}

// GameConfig 游戏配置的顶层结构
type GameConfig struct {
	Spawn  SpawnConfig  `yaml:"spawn"`
	Ball   BallConfig   `yaml:"ball"`
	Portal PortalConfig `yaml:"portal"`
	Render RenderConfig `yaml:"render"`
	Sim    SimConfig    `yaml:"sim"`
}

// DefaultGameConfig 返回默认配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Spawn: SpawnConfig{
			MaxPortalCount:         20,
			MaxPortalCountPerPlane: 2,
			MinSpawnInterval:       100 * time.Millisecond,
			SpawnsPerFrame:         SpawnModeOne,
		},
		Ball: BallConfig{
			ModelURI:    "asset://ball",
			LocalOffset: [3]float64{0, -0.4, -1},
			Scale:       1,
			TouchRadius: 0.08,
		},
		Portal: PortalConfig{
			ModelURI:      "asset://portal",
			Scale:         1,
			TouchRadius:   0.12,
			FallbackColor: "#8c3cdc",
		},
		Render: RenderConfig{
			ScreenWidth:    480,
			ScreenHeight:   854,
			FovYDegrees:    60,
			ShowCameraFeed: true,
		},
		Sim: SimConfig{
			Seed:         1,
			WarmupFrames: 45,
			FrameRate:    60,
			CameraHeight: 1.4,
			ImageWidth:   160,
			ImageHeight:  284,
			Planes: []PlaneSpec{
				{AppearAfter: 500 * time.Millisecond, Center: [3]float64{0, 0, -2}, Extent: [2]float64{4, 4}, Color: "#6b8e23"},
				{AppearAfter: 2 * time.Second, Center: [3]float64{0.6, 0.75, -1.5}, Extent: [2]float64{1.2, 0.8}, Color: "#8b5a2b"},
			},
		},
	}
}

// LoadGameConfig 从 YAML 文件加载游戏配置
//
// 文件中未出现的字段保留默认值。路径以 "data/" 开头且嵌入资源中存在时优先读取嵌入资源。
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file: %w", err)
	}

	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}

	if err := validateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return cfg, nil
}

// readConfigFile 优先从嵌入资源读取，找不到时回退到磁盘
func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// validateGameConfig 验证配置的有效性
func validateGameConfig(cfg *GameConfig) error {
	if err := validateSpawnConfig(cfg.Spawn); err != nil {
		return err
	}

	if cfg.Ball.ModelURI == "" {
		return fmt.Errorf("ball.modelUri cannot be empty")
	}
	if cfg.Ball.Scale <= 0 {
		return fmt.Errorf("ball.scale must be > 0, got %v", cfg.Ball.Scale)
	}
	if cfg.Ball.TouchRadius <= 0 {
		return fmt.Errorf("ball.touchRadius must be > 0, got %v", cfg.Ball.TouchRadius)
	}
	if cfg.Ball.LocalOffset[2] >= 0 {
		return fmt.Errorf("ball.localOffset must place the ball in front of the camera (z < 0), got %v", cfg.Ball.LocalOffset)
	}

	if cfg.Portal.ModelURI == "" {
		return fmt.Errorf("portal.modelUri cannot be empty")
	}
	if cfg.Portal.Scale <= 0 {
		return fmt.Errorf("portal.scale must be > 0, got %v", cfg.Portal.Scale)
	}
	if cfg.Portal.TouchRadius <= 0 {
		return fmt.Errorf("portal.touchRadius must be > 0, got %v", cfg.Portal.TouchRadius)
	}
	if _, err := colorful.Hex(cfg.Portal.FallbackColor); err != nil {
		return fmt.Errorf("portal.fallbackColor %q: %w", cfg.Portal.FallbackColor, err)
	}

	if cfg.Render.ScreenWidth <= 0 || cfg.Render.ScreenHeight <= 0 {
		return fmt.Errorf("render screen size must be positive, got %dx%d", cfg.Render.ScreenWidth, cfg.Render.ScreenHeight)
	}
	if cfg.Render.FovYDegrees <= 10 || cfg.Render.FovYDegrees >= 170 {
		return fmt.Errorf("render.fovYDegrees must be between 10 and 170, got %v", cfg.Render.FovYDegrees)
	}

	return validateSimConfig(cfg.Sim)
}

func validateSpawnConfig(s SpawnConfig) error {
	if s.MaxPortalCount < 1 {
		return fmt.Errorf("spawn.maxPortalCount must be >= 1, got %d", s.MaxPortalCount)
	}
	if s.MaxPortalCountPerPlane < 1 {
		return fmt.Errorf("spawn.maxPortalCountPerPlane must be >= 1, got %d", s.MaxPortalCountPerPlane)
	}
	if s.MinSpawnInterval < 0 {
		return fmt.Errorf("spawn.minSpawnInterval must be >= 0, got %v", s.MinSpawnInterval)
	}
	switch s.SpawnsPerFrame {
	case SpawnModeOne, SpawnModeAll:
	default:
		return fmt.Errorf("spawn.spawnsPerFrame must be %q or %q, got %q", SpawnModeOne, SpawnModeAll, s.SpawnsPerFrame)
	}
	return nil
}

func validateSimConfig(s SimConfig) error {
	if s.FrameRate <= 0 {
		return fmt.Errorf("sim.frameRate must be > 0, got %d", s.FrameRate)
	}
	if s.WarmupFrames < 0 {
		return fmt.Errorf("sim.warmupFrames must be >= 0, got %d", s.WarmupFrames)
	}
	if s.ImageWidth < 2 || s.ImageHeight < 2 || s.ImageWidth%2 != 0 || s.ImageHeight%2 != 0 {
		return fmt.Errorf("sim image size must be even and >= 2, got %dx%d", s.ImageWidth, s.ImageHeight)
	}
	for i, p := range s.Planes {
		if p.Extent[0] <= 0 || p.Extent[1] <= 0 {
			return fmt.Errorf("sim.planes[%d].extent must be positive, got %v", i, p.Extent)
		}
		if p.LoseAfter != 0 && p.LoseAfter <= p.AppearAfter {
			return fmt.Errorf("sim.planes[%d].loseAfter must be after appearAfter", i)
		}
		if p.Color != "" {
			if _, err := colorful.Hex(p.Color); err != nil {
				return fmt.Errorf("sim.planes[%d].color %q: %w", i, p.Color, err)
			}
		}
	}
	return nil
}
