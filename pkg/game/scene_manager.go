package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	paused       bool
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene. The previous scene is given a chance to save.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		sm.SaveCurrent()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// SaveCurrent 如果当前场景实现了 Saveable，调用其 SaveOnExit
//
// 返回 false 仅表示保存失败，调用方可以继续退出流程。
func (sm *SceneManager) SaveCurrent() bool {
	saveable, ok := sm.currentScene.(Saveable)
	if !ok {
		return true
	}
	if !saveable.SaveOnExit() {
		log.Printf("[SceneManager] Warning: scene failed to save on exit")
		return false
	}
	return true
}

// SetPaused 应用前后台切换时调用，转发给实现了 Pausable 的场景
func (sm *SceneManager) SetPaused(paused bool) {
	if sm.paused == paused {
		return
	}
	sm.paused = paused
	if p, ok := sm.currentScene.(Pausable); ok {
		p.SetPaused(paused)
	}
	log.Printf("[SceneManager] Paused=%v", paused)
}

// IsPaused 当前是否处于暂停状态
func (sm *SceneManager) IsPaused() bool {
	return sm.paused
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
