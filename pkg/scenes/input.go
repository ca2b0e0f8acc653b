package scenes

import (
	"github.com/decker502/arportal/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource 场景读取输入的接口，测试中可替换
type InputSource interface {
	Pointer() utils.PointerSample
	KeyJustPressed(key ebiten.Key) bool
	KeyPressed(key ebiten.Key) bool
}

// ebitenInput 从 ebiten 读取真实输入
type ebitenInput struct{}

func (ebitenInput) Pointer() utils.PointerSample {
	return utils.PollPointer()
}

func (ebitenInput) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func (ebitenInput) KeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}
