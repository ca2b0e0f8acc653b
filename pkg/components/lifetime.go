package components

// LifetimeComponent 短时存在的实体（摧毁传送门时的弹出效果）
// 到期后由 LifetimeSystem 销毁
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
}

// Progress 已经过的生命周期比例，限制在 [0, 1]
func (l *LifetimeComponent) Progress() float64 {
	if l.MaxLifetime <= 0 || l.CurrentLifetime >= l.MaxLifetime {
		return 1
	}
	if l.CurrentLifetime <= 0 {
		return 0
	}
	return l.CurrentLifetime / l.MaxLifetime
}

// Expired 是否已到期
func (l *LifetimeComponent) Expired() bool {
	return l.CurrentLifetime >= l.MaxLifetime
}
