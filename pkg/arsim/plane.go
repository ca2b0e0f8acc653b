package arsim

import (
	"log"
	"math"
	"time"

	"github.com/decker502/arportal/pkg/ar"
	"github.com/decker502/arportal/pkg/config"
	"github.com/lucasb-eyer/go-colorful"
)

// simPlane 按时间表出现的有界水平平面
type simPlane struct {
	key      ar.PlaneKey
	spec     config.PlaneSpec
	color    colorful.Color
	detected bool
	state    ar.TrackingState
	anchors  []*simAnchor
}

// advance 按会话经过的时间更新检测与追踪状态
//
// 平面在 AppearAfter 后被检测到；设置了 LoseAfter 时，从该时刻起
// 暂停追踪 relockAfter，然后恢复。
func (p *simPlane) advance(elapsed time.Duration) {
	if elapsed < p.spec.AppearAfter {
		return
	}
	if !p.detected {
		p.detected = true
		log.Printf("[arsim] Plane %x detected at %v (y=%.2f)", uint64(p.key), elapsed, p.spec.Center[1])
	}

	next := ar.TrackingStateTracking
	if p.spec.LoseAfter > 0 && elapsed >= p.spec.LoseAfter && elapsed < p.spec.LoseAfter+relockAfter {
		next = ar.TrackingStatePaused
	}
	if next != p.state {
		log.Printf("[arsim] Plane %x %v -> %v", uint64(p.key), p.state, next)
		p.state = next
	}
}

// intersect 射线与平面矩形求交
func (p *simPlane) intersect(origin, dir ar.Vec3) (ar.Vec3, float64, bool) {
	if math.Abs(dir.Y) < 1e-9 {
		return ar.Vec3{}, 0, false
	}
	t := (p.spec.Center[1] - origin.Y) / dir.Y
	if t <= 0 {
		return ar.Vec3{}, 0, false
	}
	point := origin.Add(dir.Scale(t))
	if math.Abs(point.X-p.spec.Center[0]) > p.spec.Extent[0]/2 ||
		math.Abs(point.Z-p.spec.Center[2]) > p.spec.Extent[1]/2 {
		return ar.Vec3{}, 0, false
	}
	return point, t, true
}

func (p *simPlane) Key() ar.PlaneKey {
	return p.key
}

func (p *simPlane) TrackingState() ar.TrackingState {
	return p.state
}

// AnchorCount 平面上未卸下的锚点数量
func (p *simPlane) AnchorCount() int {
	n := 0
	for _, a := range p.anchors {
		if !a.detached {
			n++
		}
	}
	return n
}

// CreateAnchor 在平面上创建锚点，平面未追踪时返回 ar.ErrNotTracking
func (p *simPlane) CreateAnchor(pose ar.Pose) (ar.Anchor, error) {
	if !p.detected || p.state != ar.TrackingStateTracking {
		return nil, ar.ErrNotTracking
	}
	a := &simAnchor{pose: pose, plane: p}
	p.anchors = append(p.anchors, a)
	return a, nil
}

// simAnchor 挂在模拟平面上的锚点，追踪状态跟随平面
type simAnchor struct {
	pose     ar.Pose
	plane    *simPlane
	detached bool
}

func (a *simAnchor) Pose() ar.Pose {
	return a.pose
}

func (a *simAnchor) TrackingState() ar.TrackingState {
	if a.detached {
		return ar.TrackingStateStopped
	}
	return a.plane.state
}

func (a *simAnchor) Detach() {
	a.detached = true
}
