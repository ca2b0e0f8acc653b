// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// TapSlop 按下到抬起之间移动不超过该距离（像素）视为点击
	TapSlop = 12
	// TouchTapSlop 触摸屏上手指抖动更大
	TouchTapSlop = 24
)

// PointerSample 一帧的指针状态
// 同时支持鼠标和触摸输入，优先使用触摸
type PointerSample struct {
	Pressed bool
	X, Y    int
}

// 保存最后一次触摸位置（触摸释放的那一帧读不到位置）
var lastTouchX, lastTouchY int

// PollPointer 读取当前帧的指针状态
func PollPointer() PointerSample {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		lastTouchX, lastTouchY = ebiten.TouchPosition(touchIDs[0])
		return PointerSample{Pressed: true, X: lastTouchX, Y: lastTouchY}
	}

	// 触摸刚释放：沿用最后位置，让手势识别器看到抬起
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return PointerSample{Pressed: false, X: lastTouchX, Y: lastTouchY}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), X: x, Y: y}
}

// GestureKind 手势类型
type GestureKind int

const (
	// GestureNone 本帧没有手势
	GestureNone GestureKind = iota
	// GestureTap 点击（抬起时产生，位置为按下位置）
	GestureTap
	// GestureDrag 拖动中，DX/DY 为本帧位移
	GestureDrag
)

// Gesture 识别出的手势
type Gesture struct {
	Kind   GestureKind
	X, Y   int
	DX, DY int
}

// GestureTracker 把逐帧指针状态识别为点击或拖动
//
// 移动距离超过 slop 后进入拖动，此后抬起不再产生点击。
type GestureTracker struct {
	slop     int
	pressed  bool
	dragging bool
	startX   int
	startY   int
	lastX    int
	lastY    int
}

// NewGestureTracker 创建手势识别器，移动端使用更大的点击容差
func NewGestureTracker() *GestureTracker {
	slop := TapSlop
	if IsMobile() {
		slop = TouchTapSlop
	}
	return &GestureTracker{slop: slop}
}

// Slop 点击容差（像素）
func (g *GestureTracker) Slop() int {
	return g.slop
}

// Update 输入一帧指针状态，返回本帧手势
func (g *GestureTracker) Update(s PointerSample) Gesture {
	switch {
	case s.Pressed && !g.pressed:
		g.pressed = true
		g.dragging = false
		g.startX, g.startY = s.X, s.Y
		g.lastX, g.lastY = s.X, s.Y
		return Gesture{}

	case s.Pressed:
		if !g.dragging {
			dx, dy := s.X-g.startX, s.Y-g.startY
			if dx*dx+dy*dy > g.slop*g.slop {
				g.dragging = true
			}
		}
		if !g.dragging {
			return Gesture{}
		}
		out := Gesture{Kind: GestureDrag, X: s.X, Y: s.Y, DX: s.X - g.lastX, DY: s.Y - g.lastY}
		g.lastX, g.lastY = s.X, s.Y
		return out

	case g.pressed:
		g.pressed = false
		if g.dragging {
			g.dragging = false
			return Gesture{}
		}
		return Gesture{Kind: GestureTap, X: g.startX, Y: g.startY}
	}
	return Gesture{}
}

// Reset 丢弃进行中的手势（例如应用切到后台）
func (g *GestureTracker) Reset() {
	*g = GestureTracker{slop: g.slop}
}
