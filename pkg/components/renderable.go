package components

import "github.com/lucasb-eyer/go-colorful"

// RenderableComponent 描述如何绘制实体
// 模板通过 AssetLoader 按 URI 取得，ColorOverride 为 nil 时使用模板自身颜色
type RenderableComponent struct {
	TemplateURI   string
	Scale         float64
	ColorOverride *colorful.Color
	Hidden        bool    // 锚点丢失追踪时隐藏，不销毁
	Highlight     float64 // 触摸反馈的高亮强度 0-1，逐帧衰减
	GrowIn        bool    // 出现时由小到大弹出
	LiesFlat      bool    // 平放在平面上，按视角压扁成椭圆
	Age           float64 // 创建后经过的秒数
}
