package systems

import (
	"fmt"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/components"
	"github.com/decker502/arportal/pkg/config"
	"github.com/decker502/arportal/pkg/game"
	"github.com/lucasb-eyer/go-colorful"
)

// SkipReason 本帧没有生成传送门的原因
//
// 这些都是预期内的情况，不是错误：调用方只用它决定是否显示提示。
type SkipReason int

const (
	SkipNone          SkipReason = iota // 本帧有生成
	SkipNotTracking                     // 相机未处于追踪状态，整帧跳过
	SkipAssetsLoading                   // 传送门模板尚未加载完成
	SkipCapReached                      // 存活数量已达上限
	SkipNoCandidate                     // 没有可用平面或命中结果
	SkipRateLimited                     // 距上次生成太近，被限流推迟
)

// String 返回跳过原因名称（用于日志和调试面板）
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNotTracking:
		return "not tracking"
	case SkipAssetsLoading:
		return "assets loading"
	case SkipCapReached:
		return "cap reached"
	case SkipNoCandidate:
		return "no candidate"
	case SkipRateLimited:
		return "rate limited"
	default:
		return fmt.Sprintf("SkipReason(%d)", int(r))
	}
}

// PlaneView 已分配稳定编号的引擎平面
type PlaneView struct {
	ID    game.PlaneID
	Plane ar.Plane
}

// FrameInput 生成策略每帧的输入
//
// HitTest 和 SampleColor 由调用方按需求值：
// 只有走到对应步骤的平面才会触发命中测试，取色每帧最多调用一次。
type FrameInput struct {
	TimestampNanos int64
	CameraTracking bool
	Planes         []PlaneView // 引擎报告的顺序，不重新排序

	// HitTest 返回屏幕中心射线与该平面的交点，由近及远
	HitTest func(p PlaneView) []ar.HitResult
	// SampleColor 从相机图像中心取色，失败时返回 false
	SampleColor func() (colorful.Color, bool)

	BallReady   bool // 小球模板是否已加载
	PortalReady bool // 传送门模板是否已加载
}

// SpawnDecision 一次传送门生成决定
type SpawnDecision struct {
	PlaneID game.PlaneID
	Plane   ar.Plane
	Pose    ar.Pose
	Color   colorful.Color
}

// FrameResult 生成策略每帧的输出
type FrameResult struct {
	PlaceBall bool
	Spawns    []SpawnDecision
	Skip      SkipReason
}

// PortalSpawnPolicy 决定每帧是否、在哪里生成传送门
//
// 策略本身无状态，所有计数都在调用方持有的 game.SpawnState 中。
// 限流是去抖语义：间隔内的帧会把 LastSpawnTimestamp 推到当前帧，
// 因此每帧都命中、且帧间隔始终小于最小间隔的平面永远不会再生成。
type PortalSpawnPolicy struct {
	cfg           config.SpawnConfig
	fallbackColor colorful.Color
}

// NewPortalSpawnPolicy 创建生成策略
// fallback 为相机取色失败时使用的传送门颜色
func NewPortalSpawnPolicy(cfg config.SpawnConfig, fallback colorful.Color) *PortalSpawnPolicy {
	if cfg.SpawnsPerFrame == "" {
		cfg.SpawnsPerFrame = config.SpawnModeOne
	}
	return &PortalSpawnPolicy{
		cfg:           cfg,
		fallbackColor: fallback,
	}
}

// Config 返回策略参数
func (p *PortalSpawnPolicy) Config() config.SpawnConfig {
	return p.cfg
}

// OnTrackedFrame 处理一帧
func (p *PortalSpawnPolicy) OnTrackedFrame(state *game.SpawnState, in FrameInput) FrameResult {
	// 非追踪帧不做任何决定，也不修改任何状态
	if !in.CameraTracking {
		return FrameResult{Skip: SkipNotTracking}
	}

	var result FrameResult

	// 小球只放置一次；模板未就绪时不置位，下一帧重试
	if !state.BallPlaced && in.BallReady {
		state.BallPlaced = true
		result.PlaceBall = true
	}

	if state.TotalLivePortalCount >= p.cfg.MaxPortalCount {
		result.Skip = SkipCapReached
		return result
	}

	if !in.PortalReady {
		result.Skip = SkipAssetsLoading
		return result
	}

	var (
		color       colorful.Color
		colorLoaded bool
		rateChecked bool
	)

	for _, view := range in.Planes {
		if state.TotalLivePortalCount >= p.cfg.MaxPortalCount {
			break
		}
		if view.Plane == nil || view.Plane.TrackingState() != ar.TrackingStateTracking {
			continue
		}
		if state.PortalsOn(view.ID) >= p.cfg.MaxPortalCountPerPlane {
			continue
		}

		var hits []ar.HitResult
		if in.HitTest != nil {
			hits = in.HitTest(view)
		}
		if len(hits) == 0 {
			continue
		}

		// 同一帧内的多次生成共用一次限流判定
		if !rateChecked {
			rateChecked = true
			elapsed := in.TimestampNanos - state.LastSpawnTimestamp
			state.LastSpawnTimestamp = in.TimestampNanos
			if elapsed <= p.cfg.MinSpawnIntervalNanos() {
				result.Skip = SkipRateLimited
				return result
			}
		}

		// 取最远的交点
		pose := hits[len(hits)-1].Pose

		if !colorLoaded {
			colorLoaded = true
			color = p.fallbackColor
			if in.SampleColor != nil {
				if c, ok := in.SampleColor(); ok {
					color = c
				}
			}
		}

		state.RecordSpawn(view.ID)
		result.Spawns = append(result.Spawns, SpawnDecision{
			PlaneID: view.ID,
			Plane:   view.Plane,
			Pose:    pose,
			Color:   color,
		})

		if p.cfg.SpawnsPerFrame == config.SpawnModeOne {
			break
		}
	}

	if len(result.Spawns) == 0 {
		result.Skip = SkipNoCandidate
	}
	return result
}

// OnPortalTouched 处理一次对存活传送门的触摸
//
// 得分 +1，存活计数和所在平面计数各 -1（不低于 0），传送门标记为已摧毁。
// 对已摧毁的传送门重复调用是无操作，返回 false。
func OnPortalTouched(state *game.SpawnState, portal *components.PortalComponent) bool {
	if portal == nil || portal.Destroyed {
		return false
	}
	portal.Destroyed = true
	state.RecordDestroyed(portal.PlaneID)
	return true
}
