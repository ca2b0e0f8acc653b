package game

// SpawnState 传送门生成策略的全部可变状态
//
// 由编排方（ARScene）持有，每帧以指针形式传入生成策略，
// 只在帧线程上修改，因此不需要加锁。
//
// 不变量：
//   - TotalLivePortalCount 不超过配置的 maxPortalCount
//   - PerPlanePortalCount[p] 不超过配置的 maxPortalCountPerPlane
//   - DestroyedCount 只增不减
//   - BallPlaced 只会从 false 变为 true 一次
type SpawnState struct {
	TotalLivePortalCount int             // 场上存活的传送门数量
	PerPlanePortalCount  map[PlaneID]int // 每个平面上存活的传送门数量
	DestroyedCount       int             // 已摧毁的传送门数量（得分）
	LastSpawnTimestamp   int64           // 上次生成（或被限流推迟）时的帧时间戳（纳秒）
	BallPlaced           bool            // 小球是否已放置
}

// NewSpawnState 创建初始状态
func NewSpawnState() *SpawnState {
	return &SpawnState{
		PerPlanePortalCount: make(map[PlaneID]int),
	}
}

// RecordSpawn 记录一次生成
func (s *SpawnState) RecordSpawn(plane PlaneID) {
	if s.PerPlanePortalCount == nil {
		s.PerPlanePortalCount = make(map[PlaneID]int)
	}
	s.TotalLivePortalCount++
	s.PerPlanePortalCount[plane]++
}

// RecordDestroyed 记录一次摧毁：得分 +1，存活计数 -1（不低于 0）
func (s *SpawnState) RecordDestroyed(plane PlaneID) {
	s.DestroyedCount++
	s.Release(plane)
}

// Release 撤销一次生成但不计分（例如锚点创建失败），计数不低于 0
func (s *SpawnState) Release(plane PlaneID) {
	if s.TotalLivePortalCount > 0 {
		s.TotalLivePortalCount--
	}
	if n := s.PerPlanePortalCount[plane]; n > 1 {
		s.PerPlanePortalCount[plane] = n - 1
	} else {
		delete(s.PerPlanePortalCount, plane)
	}
}

// PortalsOn 平面上存活的传送门数量
func (s *SpawnState) PortalsOn(plane PlaneID) int {
	return s.PerPlanePortalCount[plane]
}

// LivePortals 场上存活的传送门数量
func (s *SpawnState) LivePortals() int {
	return s.TotalLivePortalCount
}

// Score 当前会话得分，会话期间不会重置
func (s *SpawnState) Score() int {
	return s.DestroyedCount
}
