package main

import (
	"flag"
	"log"

	"github.com/decker502/arportal/pkg/app"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志")
	configPath := flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	assetsPath := flag.String("assets", config.DefaultAssetManifestPath, "资源清单文件")
	seed := flag.Int64("seed", 0, "模拟引擎随机种子（0 使用配置文件中的值）")
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		AssetsPath: *assetsPath,
		Seed:       *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	w, h := gameApp.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("AR Portal")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 失焦时继续调用 Update，App 才能察觉并暂停会话
	ebiten.SetRunnableOnUnfocused(true)

	err = ebiten.RunGame(gameApp)
	// 窗口关闭或出错时都保存成绩
	if cerr := gameApp.Close(); cerr != nil {
		log.Printf("[Main] Close failed: %v", cerr)
	}
	if err != nil {
		log.Fatal(err)
	}
}
