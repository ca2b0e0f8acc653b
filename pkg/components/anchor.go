package components

import "github.com/decker502/arportal/pkg/ar"

// AnchorComponent 实体挂载的引擎锚点，实体销毁时需要 Detach
type AnchorComponent struct {
	Anchor ar.Anchor
}
