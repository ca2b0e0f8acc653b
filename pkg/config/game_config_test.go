package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/decker502/arportal/pkg/embedded"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestDefaultGameConfigIsValid(t *testing.T) {
	cfg := DefaultGameConfig()
	if err := validateGameConfig(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Spawn.MaxPortalCount != 20 {
		t.Errorf("MaxPortalCount = %d, want 20", cfg.Spawn.MaxPortalCount)
	}
	if cfg.Spawn.MaxPortalCountPerPlane != 2 {
		t.Errorf("MaxPortalCountPerPlane = %d, want 2", cfg.Spawn.MaxPortalCountPerPlane)
	}
	if cfg.Spawn.MinSpawnIntervalNanos() != 100_000_000 {
		t.Errorf("MinSpawnIntervalNanos = %d, want 100000000", cfg.Spawn.MinSpawnIntervalNanos())
	}
	if cfg.Spawn.SpawnsPerFrame != SpawnModeOne {
		t.Errorf("SpawnsPerFrame = %q, want %q", cfg.Spawn.SpawnsPerFrame, SpawnModeOne)
	}
	// 小球静止位置：相机前方 1 米、下方 0.4 米
	if cfg.Ball.LocalOffset != [3]float64{0, -0.4, -1} {
		t.Errorf("Ball.LocalOffset = %v, want [0 -0.4 -1]", cfg.Ball.LocalOffset)
	}
}

func TestLoadGameConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *GameConfig)
	}{
		{
			name: "partial override keeps defaults",
			yamlContent: `
spawn:
  maxPortalCount: 5
  minSpawnInterval: 250ms
  spawnsPerFrame: all
`,
			validate: func(t *testing.T, cfg *GameConfig) {
				if cfg.Spawn.MaxPortalCount != 5 {
					t.Errorf("MaxPortalCount = %d, want 5", cfg.Spawn.MaxPortalCount)
				}
				if cfg.Spawn.MinSpawnInterval != 250*time.Millisecond {
					t.Errorf("MinSpawnInterval = %v, want 250ms", cfg.Spawn.MinSpawnInterval)
				}
				if cfg.Spawn.SpawnsPerFrame != SpawnModeAll {
					t.Errorf("SpawnsPerFrame = %q, want all", cfg.Spawn.SpawnsPerFrame)
				}
				if cfg.Spawn.MaxPortalCountPerPlane != 2 {
					t.Errorf("MaxPortalCountPerPlane default lost, got %d", cfg.Spawn.MaxPortalCountPerPlane)
				}
				if cfg.Portal.ModelURI != "asset://portal" {
					t.Errorf("Portal.ModelURI default lost, got %q", cfg.Portal.ModelURI)
				}
			},
		},
		{
			name: "ball offset and planes",
			yamlContent: `
ball:
  localOffset: [0.1, -0.2, -0.7]
sim:
  planes:
    - appearAfter: 1s
      center: [0, 0, -1]
      extent: [1, 1]
`,
			validate: func(t *testing.T, cfg *GameConfig) {
				if cfg.Ball.LocalOffset != [3]float64{0.1, -0.2, -0.7} {
					t.Errorf("LocalOffset = %v", cfg.Ball.LocalOffset)
				}
				if len(cfg.Sim.Planes) != 1 {
					t.Fatalf("len(Planes) = %d, want 1", len(cfg.Sim.Planes))
				}
				if cfg.Sim.Planes[0].AppearAfter != time.Second {
					t.Errorf("AppearAfter = %v, want 1s", cfg.Sim.Planes[0].AppearAfter)
				}
			},
		},
		{
			name:        "zero portal cap",
			yamlContent: "spawn:\n  maxPortalCount: 0\n",
			wantErr:     true,
			errContains: "maxPortalCount",
		},
		{
			name:        "zero per-plane cap",
			yamlContent: "spawn:\n  maxPortalCountPerPlane: 0\n",
			wantErr:     true,
			errContains: "maxPortalCountPerPlane",
		},
		{
			name:        "negative interval",
			yamlContent: "spawn:\n  minSpawnInterval: -1s\n",
			wantErr:     true,
			errContains: "minSpawnInterval",
		},
		{
			name:        "unknown spawn mode",
			yamlContent: "spawn:\n  spawnsPerFrame: some\n",
			wantErr:     true,
			errContains: "spawnsPerFrame",
		},
		{
			name:        "ball behind camera",
			yamlContent: "ball:\n  localOffset: [0, -0.4, 0.5]\n",
			wantErr:     true,
			errContains: "localOffset",
		},
		{
			name:        "zero ball touch radius",
			yamlContent: "ball:\n  touchRadius: 0\n",
			wantErr:     true,
			errContains: "ball.touchRadius",
		},
		{
			name:        "bad fallback color",
			yamlContent: "portal:\n  fallbackColor: purple\n",
			wantErr:     true,
			errContains: "fallbackColor",
		},
		{
			name:        "odd image size",
			yamlContent: "sim:\n  imageWidth: 161\n",
			wantErr:     true,
			errContains: "image size",
		},
		{
			name: "plane lost before it appears",
			yamlContent: `
sim:
  planes:
    - appearAfter: 2s
      loseAfter: 1s
      extent: [1, 1]
`,
			wantErr:     true,
			errContains: "loseAfter",
		},
		{
			name:        "malformed yaml",
			yamlContent: "spawn: [\n",
			wantErr:     true,
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadGameConfig(writeTempConfig(t, tt.yamlContent))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadGameConfigMissingFile(t *testing.T) {
	if _, err := LoadGameConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadGameConfigFromEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/config.yaml": {Data: []byte("spawn:\n  maxPortalCount: 7\n")},
	})
	defer embedded.Init(nil)

	cfg, err := LoadGameConfig(DefaultGameConfigPath)
	if err != nil {
		t.Fatalf("LoadGameConfig() error: %v", err)
	}
	if cfg.Spawn.MaxPortalCount != 7 {
		t.Errorf("MaxPortalCount = %d, want 7", cfg.Spawn.MaxPortalCount)
	}
}

// TestShippedConfigFiles 确保仓库内的配置文件可以通过校验
func TestShippedConfigFiles(t *testing.T) {
	cfg, err := LoadGameConfig("../../data/config.yaml")
	if err != nil {
		t.Fatalf("data/config.yaml invalid: %v", err)
	}
	if len(cfg.Sim.Planes) == 0 {
		t.Error("shipped config should define simulator planes")
	}

	manifest, err := LoadAssetManifest("../../data/assets.yaml")
	if err != nil {
		t.Fatalf("data/assets.yaml invalid: %v", err)
	}
	for _, uri := range []string{cfg.Ball.ModelURI, cfg.Portal.ModelURI} {
		if _, ok := manifest.Lookup(uri); !ok {
			t.Errorf("asset manifest missing %s", uri)
		}
	}
}
