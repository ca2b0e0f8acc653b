package systems

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/camera"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
	"github.com/decker502/arportal/pkg/game"
	"github.com/decker502/arportal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// TemplateSource 按 URI 取已就绪的模板（game.AssetLoader 实现该接口）
type TemplateSource interface {
	Get(uri string) (*game.Template, bool)
}

const (
	// highlightDecay 高亮每秒衰减量
	highlightDecay = 2.5
	// highlightMix 高亮为 1 时向白色混合的比例
	highlightMix = 0.6
	// minSquash 平面几乎与视线平行时传送门仍保留的最小纵向比例
	minSquash = 0.15
	// growDuration 传送门弹出动画时长（秒）
	growDuration = 0.3
	// growFrom 弹出动画的起始缩放
	growFrom = 0.3
	// popExpand 摧毁效果结束时相对传送门的缩放
	popExpand = 1.8
)

var (
	white           = colorful.Color{R: 1, G: 1, B: 1}
	noFeedColor     = color.RGBA{R: 0x1a, G: 0x1c, B: 0x24, A: 0xff}
	reticleColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
	hudShadeColor   = color.RGBA{A: 0x90}
	placeholderTint = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// HUD 叠加层显示的数据
type HUD struct {
	Score    int
	Live     int
	Best     int
	Tracking bool
	Loading  bool
	Debug    []string // 调试面板开启时追加的行
}

// drawItem 一个待绘制的实体（已投影）
type drawItem struct {
	id       ecs.EntityID
	x, y     float64
	depth    float64
	diameter float64 // 屏幕直径（像素）
	squash   float64 // 纵向压缩比例，平放在平面上的传送门呈椭圆
	tint     colorful.Color
	alpha    float64
	tpl      *game.Template
}

// RenderSystem 绘制相机背景、传送门、小球与 HUD
//
// 世界实体按深度由远及近绘制，透视缩放由相机投影给出的像素/米比例决定。
// 模板纹理是灰度的，颜色通过 ColorScale 着色。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	templates     TemplateSource

	feedPixels *image.RGBA
	feed       *ebiten.Image
	hasFeed    bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, templates TemplateSource) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		templates:     templates,
	}
}

// Update 推进弹出动画并衰减高亮
func (s *RenderSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.RenderableComponent](s.entityManager) {
		r, _ := ecs.GetComponent[*components.RenderableComponent](s.entityManager, id)
		r.Age += deltaTime
		if r.Highlight > 0 {
			r.Highlight = math.Max(0, r.Highlight-highlightDecay*deltaTime)
		}
	}
}

// UpdateCameraFeed 把当前帧相机图像转换为背景纹理
//
// 调用方负责图像的获取与释放；转换失败时保留上一帧背景。
func (s *RenderSystem) UpdateCameraFeed(img ar.CameraImage) error {
	frame, err := camera.FromImage(img)
	if err != nil {
		return err
	}

	w, h := frame.Width, frame.Height
	if s.feedPixels == nil || s.feedPixels.Bounds().Dx() != w || s.feedPixels.Bounds().Dy() != h {
		s.feedPixels = image.NewRGBA(image.Rect(0, 0, w, h))
		if s.feed != nil {
			s.feed.Deallocate()
		}
		s.feed = ebiten.NewImage(w, h)
		log.Printf("[RenderSystem] Camera feed resized to %dx%d", w, h)
	}

	if err := frame.ToRGBA(s.feedPixels); err != nil {
		return fmt.Errorf("failed to convert camera feed: %w", err)
	}
	s.feed.WritePixels(s.feedPixels.Pix)
	s.hasFeed = true
	return nil
}

// ClearCameraFeed 关闭相机背景
func (s *RenderSystem) ClearCameraFeed() {
	s.hasFeed = false
}

// Draw 绘制背景与世界实体
func (s *RenderSystem) Draw(screen *ebiten.Image, cam ar.Camera) {
	s.drawBackground(screen)
	if cam == nil {
		return
	}

	bounds := screen.Bounds()
	for _, item := range s.collect(cam, bounds.Dx(), bounds.Dy()) {
		s.drawItem(screen, item)
	}
}

// drawBackground 以铺满方式绘制相机画面（保持宽高比，居中裁切）
func (s *RenderSystem) drawBackground(screen *ebiten.Image) {
	if !s.hasFeed || s.feed == nil {
		screen.Fill(noFeedColor)
		return
	}

	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	fw, fh := float64(s.feed.Bounds().Dx()), float64(s.feed.Bounds().Dy())
	scale := math.Max(sw/fw, sh/fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((sw-fw*scale)/2, (sh-fh*scale)/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.feed, op)
}

// collect 投影所有可见实体，按深度由远及近排序
func (s *RenderSystem) collect(cam ar.Camera, width, height int) []drawItem {
	camPos := cam.Pose().Position
	ids := ecs.GetEntitiesWith2[*components.RenderableComponent, *components.TransformComponent](s.entityManager)
	items := make([]drawItem, 0, len(ids))

	for _, id := range ids {
		r, _ := ecs.GetComponent[*components.RenderableComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if r.Hidden {
			continue
		}

		proj, ok := cam.Project(transform.Pose.Position, width, height)
		if !ok {
			continue
		}

		item := drawItem{
			id:     id,
			x:      proj.X,
			y:      proj.Y,
			depth:  proj.Depth,
			squash: 1,
			tint:   placeholderTint,
			alpha:  1,
		}

		radius := 0.05
		if tpl, ok := s.templates.Get(r.TemplateURI); ok {
			item.tpl = tpl
			item.tint = tpl.BaseColor
			radius = tpl.Radius()
		}
		if r.ColorOverride != nil {
			item.tint = *r.ColorOverride
		}
		if r.Highlight > 0 {
			item.tint = item.tint.BlendLab(white, highlightMix*math.Min(1, r.Highlight)).Clamped()
		}

		scale := r.Scale
		if scale <= 0 {
			scale = 1
		}
		scale *= growScale(r)

		// 短时效果随寿命扩散并淡出
		if lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id); ok {
			p := lifetime.Progress()
			scale *= utils.Lerp(1, popExpand, utils.EaseOutCubic(p))
			item.alpha = 1 - p
		}
		item.diameter = 2 * radius * scale * proj.PixelsPerMetre

		if r.LiesFlat {
			item.squash = planeSquash(transform.Pose, camPos)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].depth > items[j].depth
	})
	return items
}

// growScale 弹出动画的当前缩放，动画结束后为 1
func growScale(r *components.RenderableComponent) float64 {
	if !r.GrowIn {
		return 1
	}
	return utils.Lerp(growFrom, 1, utils.EaseOutBack(utils.Progress(r.Age, growDuration)))
}

// planeSquash 平放在平面上的圆盘从 camPos 看过去的纵横比
func planeSquash(pose ar.Pose, camPos ar.Vec3) float64 {
	normal := pose.Rotation.Rotate(ar.Vec3{Y: 1})
	view := pose.Position.Sub(camPos).Normalize()
	return math.Max(minSquash, math.Abs(normal.Dot(view)))
}

func (s *RenderSystem) drawItem(screen *ebiten.Image, item drawItem) {
	if item.tpl == nil {
		// 模板未就绪时画占位圆
		r, g, b := item.tint.RGB255()
		c := color.NRGBA{R: r, G: g, B: b, A: uint8(255 * item.alpha)}
		vector.DrawFilledCircle(screen, float32(item.x), float32(item.y), float32(item.diameter/2), c, true)
		return
	}

	img := item.tpl.Image()
	n := float64(img.Bounds().Dx())
	sx := item.diameter / n

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-n/2, -n/2)
	op.GeoM.Scale(sx, sx*item.squash)
	op.GeoM.Translate(item.x, item.y)
	op.ColorScale.ScaleWithColor(item.tint)
	op.ColorScale.ScaleAlpha(float32(item.alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// DrawHUD 绘制准星与文字信息
func (s *RenderSystem) DrawHUD(screen *ebiten.Image, hud HUD) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())

	// 屏幕中心准星（生成命中测试的射线方向）
	cx, cy := w/2, h/2
	vector.StrokeLine(screen, cx-10, cy, cx-3, cy, 2, reticleColor, true)
	vector.StrokeLine(screen, cx+3, cy, cx+10, cy, 2, reticleColor, true)
	vector.StrokeLine(screen, cx, cy-10, cx, cy-3, 2, reticleColor, true)
	vector.StrokeLine(screen, cx, cy+3, cx, cy+10, 2, reticleColor, true)

	lines := []string{
		fmt.Sprintf("Score: %d   Best: %d", hud.Score, hud.Best),
		fmt.Sprintf("Portals: %d", hud.Live),
	}
	switch {
	case !hud.Tracking:
		lines = append(lines, "Move your phone slowly to find surfaces...")
	case hud.Loading:
		lines = append(lines, "Loading models...")
	}
	lines = append(lines, hud.Debug...)

	vector.DrawFilledRect(screen, 0, 0, w, float32(16*len(lines)+8), hudShadeColor, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 8, 4+16*i)
	}
}
