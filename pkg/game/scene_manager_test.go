package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	saved        int
	saveResult   bool
	paused       bool
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) SaveOnExit() bool {
	m.saved++
	return m.saveResult
}

func (m *MockScene) SetPaused(paused bool) {
	m.paused = paused
}

// plainScene 不实现可选接口
type plainScene struct{}

func (plainScene) Update(float64)      {}
func (plainScene) Draw(*ebiten.Image) {}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016) // 无场景时不 panic

	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)
	sm.Update(0.016)

	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded: called=%v dt=%v", mockScene.updateCalled, mockScene.deltaTime)
	}
	if sm.GetCurrentScene() != mockScene {
		t.Error("GetCurrentScene() should return active scene")
	}
}

func TestSceneManagerSavesPreviousSceneOnSwitch(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{saveResult: true}
	sm.SwitchTo(first)
	sm.SwitchTo(first) // 切换到同一场景不保存

	if first.saved != 0 {
		t.Errorf("switching to the same scene saved %d times", first.saved)
	}

	sm.SwitchTo(plainScene{})
	if first.saved != 1 {
		t.Errorf("previous scene saved %d times, want 1", first.saved)
	}

	// 不实现 Saveable 的场景视为保存成功
	if !sm.SaveCurrent() {
		t.Error("SaveCurrent() on non-saveable scene should succeed")
	}
}

func TestSceneManagerSaveFailure(t *testing.T) {
	sm := NewSceneManager()
	sm.SwitchTo(&MockScene{saveResult: false})

	if sm.SaveCurrent() {
		t.Error("SaveCurrent() should report failure")
	}
}

func TestSceneManagerPauseForwarding(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo(scene)

	sm.SetPaused(true)
	if !scene.paused || !sm.IsPaused() {
		t.Error("pause not forwarded")
	}
	sm.SetPaused(false)
	if scene.paused || sm.IsPaused() {
		t.Error("resume not forwarded")
	}
}
