// Package camera 把 AR 引擎的相机图像转换为游戏可用的颜色
//
// 相机图像使用 YUV_420_888 布局：
//   - Y 平面：全分辨率亮度，PixelStride 固定为 1，每行 LumaStride 字节（可能带填充）
//   - U/V 平面：宽高各按 Subsampling 下采样的色度，
//     ChromaPixelStride 为 1（平面存储）或 2（NV21/NV12 交错存储）
//
// 转换公式使用 JFIF 全范围 BT.601 系数（与 Android YuvImage 压缩路径一致）。
package camera

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrOutOfBounds 采样坐标超出图像范围
	ErrOutOfBounds = errors.New("pixel out of bounds")
	// ErrShortBuffer 平面数据长度不足以容纳声明的布局
	ErrShortBuffer = errors.New("plane buffer too short for layout")
	// ErrBadLayout 布局参数非法
	ErrBadLayout = errors.New("invalid YUV layout")
)

// Layout YUV_420_888 图像的内存布局
type Layout struct {
	Width             int
	Height            int
	LumaStride        int // Y 平面行跨度（字节）
	ChromaRowStride   int // U/V 平面行跨度（字节）
	ChromaPixelStride int // U/V 平面像素跨度（字节）：1 或 2
	Subsampling       int // 色度下采样因子，YUV420 为 2
}

// Validate 检查布局自洽
func (l Layout) Validate() error {
	switch {
	case l.Width <= 0 || l.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrBadLayout, l.Width, l.Height)
	case l.LumaStride < l.Width:
		return fmt.Errorf("%w: luma stride %d < width %d", ErrBadLayout, l.LumaStride, l.Width)
	case l.Subsampling < 1:
		return fmt.Errorf("%w: subsampling %d", ErrBadLayout, l.Subsampling)
	case l.ChromaPixelStride < 1:
		return fmt.Errorf("%w: chroma pixel stride %d", ErrBadLayout, l.ChromaPixelStride)
	case l.ChromaRowStride < l.chromaWidth()*l.ChromaPixelStride-(l.ChromaPixelStride-1):
		return fmt.Errorf("%w: chroma row stride %d too small", ErrBadLayout, l.ChromaRowStride)
	}
	return nil
}

func (l Layout) chromaWidth() int {
	return (l.Width + l.Subsampling - 1) / l.Subsampling
}

func (l Layout) chromaHeight() int {
	return (l.Height + l.Subsampling - 1) / l.Subsampling
}

// YUV 一帧 YUV_420_888 数据
type YUV struct {
	Layout
	Y, U, V []byte
}

// FromImage 从引擎图像构造 YUV 视图（不拷贝数据）
func FromImage(img ar.CameraImage) (YUV, error) {
	planes := img.Planes()
	if planes[0].PixelStride != 1 {
		return YUV{}, fmt.Errorf("%w: luma pixel stride %d", ErrBadLayout, planes[0].PixelStride)
	}
	if planes[1].RowStride != planes[2].RowStride || planes[1].PixelStride != planes[2].PixelStride {
		return YUV{}, fmt.Errorf("%w: U and V planes disagree on strides", ErrBadLayout)
	}

	f := YUV{
		Layout: Layout{
			Width:             img.Width(),
			Height:            img.Height(),
			LumaStride:        planes[0].RowStride,
			ChromaRowStride:   planes[1].RowStride,
			ChromaPixelStride: planes[1].PixelStride,
			Subsampling:       2,
		},
		Y: planes[0].Data,
		U: planes[1].Data,
		V: planes[2].Data,
	}
	if err := f.Check(); err != nil {
		return YUV{}, err
	}
	return f, nil
}

// Check 校验布局以及各平面长度
//
// 最后一行可以不带行填充，因此所需长度按"完整行 + 最后一行有效字节"计算。
func (f YUV) Check() error {
	if err := f.Validate(); err != nil {
		return err
	}
	lumaNeed := (f.Height-1)*f.LumaStride + f.Width
	if len(f.Y) < lumaNeed {
		return fmt.Errorf("%w: Y has %d bytes, need %d", ErrShortBuffer, len(f.Y), lumaNeed)
	}
	chromaNeed := (f.chromaHeight()-1)*f.ChromaRowStride + (f.chromaWidth()-1)*f.ChromaPixelStride + 1
	if len(f.U) < chromaNeed {
		return fmt.Errorf("%w: U has %d bytes, need %d", ErrShortBuffer, len(f.U), chromaNeed)
	}
	if len(f.V) < chromaNeed {
		return fmt.Errorf("%w: V has %d bytes, need %d", ErrShortBuffer, len(f.V), chromaNeed)
	}
	return nil
}

// rgb8 读取 (x, y) 像素的 8 位 RGB，调用者保证坐标合法且缓冲区已校验
func (f YUV) rgb8(x, y int) (uint8, uint8, uint8) {
	luma := f.Y[y*f.LumaStride+x]
	ci := (y/f.Subsampling)*f.ChromaRowStride + (x/f.Subsampling)*f.ChromaPixelStride
	return color.YCbCrToRGB(luma, f.U[ci], f.V[ci])
}

// RGBAt 把 (x, y) 处的像素转换为交错 RGB 颜色
func (f YUV) RGBAt(x, y int) (colorful.Color, error) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return colorful.Color{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, f.Width, f.Height)
	}
	r, g, b := f.rgb8(x, y)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// ToRGBA 把整帧转换到 dst，dst 尺寸必须与图像一致
func (f YUV) ToRGBA(dst *image.RGBA) error {
	b := dst.Bounds()
	if b.Dx() != f.Width || b.Dy() != f.Height {
		return fmt.Errorf("%w: destination %dx%d, image %dx%d", ErrBadLayout, b.Dx(), b.Dy(), f.Width, f.Height)
	}
	for y := 0; y < f.Height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < f.Width; x++ {
			r, g, bl := f.rgb8(x, y)
			i := x * 4
			row[i+0] = r
			row[i+1] = g
			row[i+2] = bl
			row[i+3] = 0xff
		}
	}
	return nil
}

// PixelAt 直接从引擎图像采样 (x, y) 处的颜色
func PixelAt(img ar.CameraImage, x, y int) (colorful.Color, error) {
	f, err := FromImage(img)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("failed to read camera image: %w", err)
	}
	return f.RGBAt(x, y)
}

// SampleCenter 采样图像中心像素
func SampleCenter(img ar.CameraImage) (colorful.Color, error) {
	return PixelAt(img, img.Width()/2, img.Height()/2)
}
