// validate_config 校验游戏配置与资源清单，并试生成每个资源模板
//
// 用法：
//
//	go run ./cmd/validate_config [-config data/config.yaml] [-assets data/assets.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/game"
)

func main() {
	configPath := flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	assetsPath := flag.String("assets", config.DefaultAssetManifestPath, "资源清单文件")
	flag.Parse()

	cfg, err := config.LoadGameConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ 配置校验失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 配置格式正确: %s\n", *configPath)
	fmt.Printf("   spawn: max=%d perPlane=%d interval=%v mode=%s\n",
		cfg.Spawn.MaxPortalCount, cfg.Spawn.MaxPortalCountPerPlane, cfg.Spawn.MinSpawnInterval, cfg.Spawn.SpawnsPerFrame)
	fmt.Printf("   sim: %d planes, seed=%d\n", len(cfg.Sim.Planes), cfg.Sim.Seed)

	manifest, err := config.LoadAssetManifest(*assetsPath)
	if err != nil {
		fmt.Printf("❌ 资源清单校验失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 资源清单格式正确: %d 项\n", len(manifest.Assets))

	failed := 0
	for _, uri := range []string{cfg.Ball.ModelURI, cfg.Portal.ModelURI} {
		if _, ok := manifest.Lookup(uri); !ok {
			fmt.Printf("❌ 配置引用的资源不在清单中: %s\n", uri)
			failed++
		}
	}

	uris := make([]string, 0, len(manifest.Assets))
	for uri := range manifest.Assets {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	loader := game.NewAssetLoader(manifest)
	for _, uri := range uris {
		tpl, err := loader.Load(uri)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", uri, err)
			failed++
			continue
		}
		fmt.Printf("✅ %s: radius=%.2fm texture=%dpx\n", uri, tpl.Radius(), tpl.Pixels.Bounds().Dx())
	}

	if failed > 0 {
		fmt.Printf("❌ 有 %d 项错误\n", failed)
		os.Exit(1)
	}
}
