package utils

import "math"

// 缓动函数接受进度 t ∈ [0, 1]，用于传送门出现、高亮等短动画。
// 参考：https://easings.net/

// EaseOutCubic 三次方缓出，开始快结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// backOvershoot EaseOutBack 的回弹幅度（easings.net 的标准取值）
const backOvershoot = 1.70158

// EaseOutBack 缓出并略微越过终点再回落，适合"弹出"效果
// 公式：f(t) = 1 + (c+1)(t-1)³ + c(t-1)²
func EaseOutBack(t float64) float64 {
	u := t - 1
	return 1 + (backOvershoot+1)*u*u*u + backOvershoot*u*u
}

// Progress 已用时间占总时长的比例，限制在 [0, 1]
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, elapsed/duration))
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
