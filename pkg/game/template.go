package game

import (
	"image"
	"math"

	"github.com/decker502/arportal/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Template 已加载、可重复实例化的模型模板
//
// 纹理为灰度 + alpha（预乘），绘制时通过 ColorScale 着色，
// 因此同一模板可以按取色结果渲染出不同颜色的传送门。
type Template struct {
	URI       string
	Spec      config.AssetSpec
	BaseColor colorful.Color
	Pixels    *image.RGBA

	image *ebiten.Image // 首次绘制时在帧线程上创建
}

// Radius 模型的世界尺寸半径（米）
func (t *Template) Radius() float64 {
	return t.Spec.Radius
}

// Image 返回 GPU 纹理，只能在帧线程上调用
func (t *Template) Image() *ebiten.Image {
	if t.image == nil {
		t.image = ebiten.NewImageFromImage(t.Pixels)
	}
	return t.image
}

// buildTemplate 按资源描述光栅化模板
func buildTemplate(uri string, spec config.AssetSpec) (*Template, error) {
	base, err := colorful.Hex(spec.Color)
	if err != nil {
		return nil, err
	}
	return &Template{
		URI:       uri,
		Spec:      spec,
		BaseColor: base,
		Pixels:    rasterize(spec),
	}, nil
}

// 球体光照方向（屏幕空间，左上方来光）
var sphereLight = [3]float64{-0.4, -0.5, 0.768}

// rasterize 生成边长 TextureSize 的灰度纹理，边缘 1 像素抗锯齿
func rasterize(spec config.AssetSpec) *image.RGBA {
	n := spec.TextureSize
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	c := float64(n) / 2
	r := c - 1
	inner := r * (1 - spec.RingWidth)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx := float64(x) + 0.5 - c
			dy := float64(y) + 0.5 - c
			dist := math.Hypot(dx, dy)

			alpha := clamp01(r - dist + 0.5)
			value := 1.0

			switch spec.Shape {
			case config.AssetShapeRing:
				alpha *= clamp01(dist - inner + 0.5)
				// 内缘更亮，形成发光感
				value = 0.7 + 0.3*clamp01(1-(dist-inner)/(r-inner))
			case config.AssetShapeSphere:
				nx, ny := dx/r, dy/r
				nz := math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))
				lambert := math.Max(0, nx*sphereLight[0]+ny*sphereLight[1]+nz*sphereLight[2])
				value = 0.35 + 0.65*lambert
			}

			if alpha <= 0 {
				continue
			}
			v := uint8(math.Round(value * alpha * 255))
			i := img.PixOffset(x, y)
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = uint8(math.Round(alpha * 255))
		}
	}
	return img
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
