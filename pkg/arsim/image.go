package arsim

import (
	"image/color"
	"math"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/lucasb-eyer/go-colorful"
)

// rowPadding 每行末尾的填充字节，模拟设备对齐
const rowPadding = 16

// tileSize 平面上棋盘格的边长（米）
const tileSize = 0.25

// simImage NV21 布局的合成图像：Y 平面 + VU 交错平面
type simImage struct {
	session *Session
	width   int
	height  int
	y       []byte
	vu      []byte
	stride  int
	closed  bool
}

func (img *simImage) Width() int {
	return img.width
}

func (img *simImage) Height() int {
	return img.height
}

// Planes 依次返回 Y、U、V；U 与 V 共用交错缓冲区，像素跨度为 2
func (img *simImage) Planes() [3]ar.ImagePlane {
	return [3]ar.ImagePlane{
		{Data: img.y, RowStride: img.stride, PixelStride: 1},
		{Data: img.vu[1:], RowStride: img.stride, PixelStride: 2},
		{Data: img.vu[:len(img.vu)-1], RowStride: img.stride, PixelStride: 2},
	}
}

// Close 释放图像，重复调用无副作用
func (img *simImage) Close() error {
	if !img.closed {
		img.closed = true
		img.session.imageOpen = false
	}
	return nil
}

// renderImage 从相机位姿对场景做逐像素光线投射
//
// 命中平面的像素取平面颜色（带棋盘格明暗），其余像素按视线方向着色：
// 色相随水平方向变化，亮度随仰角变化。
func renderImage(s *Session, cam ar.Pose) *simImage {
	w, h := s.cfg.ImageWidth, s.cfg.ImageHeight
	stride := w + rowPadding
	cw, ch := w/2, h/2

	img := &simImage{
		session: s,
		width:   w,
		height:  h,
		stride:  stride,
		// 最后一行不带填充
		y:  make([]byte, (h-1)*stride+w),
		vu: make([]byte, (ch-1)*stride+cw*2),
	}

	row := make([]colorful.Color, w*2)
	for by := 0; by < ch; by++ {
		for dy := 0; dy < 2; dy++ {
			py := by*2 + dy
			for px := 0; px < w; px++ {
				c := s.shade(cam, float64(px)+0.5, float64(py)+0.5, w, h)
				row[dy*w+px] = c
				r, g, b := c.RGB255()
				yy, _, _ := color.RGBToYCbCr(r, g, b)
				img.y[py*stride+px] = yy
			}
		}
		// 色度取 2x2 块的平均色
		for bx := 0; bx < cw; bx++ {
			var sr, sg, sb float64
			for _, c := range []colorful.Color{row[bx*2], row[bx*2+1], row[w+bx*2], row[w+bx*2+1]} {
				sr += c.R
				sg += c.G
				sb += c.B
			}
			avg := colorful.Color{R: sr / 4, G: sg / 4, B: sb / 4}
			r, g, b := avg.Clamped().RGB255()
			_, cb, cr := color.RGBToYCbCr(r, g, b)
			i := by*stride + bx*2
			img.vu[i] = cr
			img.vu[i+1] = cb
		}
	}
	return img
}

// shade 屏幕点 (sx, sy) 处看到的颜色
//
// 场景里的平面不论是否已被"检测到"都真实存在，因此这里不看追踪状态。
func (s *Session) shade(cam ar.Pose, sx, sy float64, w, h int) colorful.Color {
	origin, dir := s.pinhole.Ray(cam, sx, sy, w, h)

	best := math.Inf(1)
	var hit *simPlane
	var point ar.Vec3
	for _, p := range s.planes {
		pt, dist, ok := p.intersect(origin, dir)
		if ok && dist < best {
			best, hit, point = dist, p, pt
		}
	}

	if hit != nil {
		tx := int(math.Floor(point.X / tileSize))
		tz := int(math.Floor(point.Z / tileSize))
		shade := 0.92
		if (tx+tz)%2 == 0 {
			shade = 1.0
		}
		// 远处略微变暗
		fog := 1 / (1 + 0.05*best)
		return colorful.Color{R: hit.color.R * shade * fog, G: hit.color.G * shade * fog, B: hit.color.B * shade * fog}
	}

	hue := math.Mod(math.Atan2(dir.X, -dir.Z)*180/math.Pi+360, 360)
	value := 0.45 + 0.35*math.Max(-1, math.Min(1, dir.Y+0.3))
	return colorful.Hsv(hue, 0.25, value).Clamped()
}
