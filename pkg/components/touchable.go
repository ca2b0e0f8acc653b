package components

// TouchableComponent 标记实体可以被触摸
// Radius 为世界空间判定半径（米），投影到屏幕后按透视缩放
type TouchableComponent struct {
	Radius    float64
	IsEnabled bool // 是否可以被触摸(用于禁用已摧毁的对象)
}
