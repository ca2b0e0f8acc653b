package components

import "github.com/decker502/arportal/pkg/ar"

// TransformComponent 实体当前的世界位姿
type TransformComponent struct {
	Pose ar.Pose
}
