package systems

import (
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/ecs"
)

// LifetimeSystem 推进短时实体的寿命，到期后销毁
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有生命周期组件的实体，返回本帧到期的数量
func (s *LifetimeSystem) Update(deltaTime float64) int {
	expired := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok {
			continue
		}

		lifetime.CurrentLifetime += deltaTime
		if lifetime.Expired() {
			s.entityManager.DestroyEntity(id)
			expired++
		}
	}
	return expired
}
