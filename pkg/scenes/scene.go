package scenes

import (
	"github.com/decker502/arportal/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var (
	_ Scene         = (*ARScene)(nil)
	_ game.Saveable = (*ARScene)(nil)
	_ game.Pausable = (*ARScene)(nil)
)
