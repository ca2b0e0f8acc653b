package game

import "github.com/decker502/arportal/pkg/ar"

// PlaneID 游戏侧的平面编号，按首次出现顺序从 0 递增
type PlaneID int

// PlaneRegistry 把引擎的平面句柄映射为稳定的稠密编号
//
// 引擎可能回收或合并平面对象，计数统一挂在 PlaneID 上。
// 平面合并时旧编号的计数不再更新，不做跨编号的合并处理。
type PlaneRegistry struct {
	ids  map[ar.PlaneKey]PlaneID
	keys []ar.PlaneKey
}

// NewPlaneRegistry 创建空的平面注册表
func NewPlaneRegistry() *PlaneRegistry {
	return &PlaneRegistry{
		ids: make(map[ar.PlaneKey]PlaneID),
	}
}

// Resolve 返回句柄对应的编号，首次出现时分配新编号
func (r *PlaneRegistry) Resolve(key ar.PlaneKey) PlaneID {
	if id, ok := r.ids[key]; ok {
		return id
	}
	id := PlaneID(len(r.keys))
	r.ids[key] = id
	r.keys = append(r.keys, key)
	return id
}

// Lookup 查询已分配的编号，不会分配新编号
func (r *PlaneRegistry) Lookup(key ar.PlaneKey) (PlaneID, bool) {
	id, ok := r.ids[key]
	return id, ok
}

// Key 反查编号对应的引擎句柄
func (r *PlaneRegistry) Key(id PlaneID) (ar.PlaneKey, bool) {
	if id < 0 || int(id) >= len(r.keys) {
		return 0, false
	}
	return r.keys[id], true
}

// Len 已注册的平面数量
func (r *PlaneRegistry) Len() int {
	return len(r.keys)
}
