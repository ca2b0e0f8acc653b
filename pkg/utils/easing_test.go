package utils

import (
	"math"
	"testing"
)

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.875}, // 1 - (1-0.5)^3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	// 前半段快于线性
	for p := 0.1; p < 0.5; p += 0.1 {
		if EaseOutCubic(p) <= p {
			t.Errorf("EaseOutCubic(%v) = %v 应该大于线性值", p, EaseOutCubic(p))
		}
	}
}

// TestEaseOutBack 端点固定，中途越过 1
func TestEaseOutBack(t *testing.T) {
	if v := EaseOutBack(0); math.Abs(v) > 1e-9 {
		t.Errorf("EaseOutBack(0) = %v, 期望 0", v)
	}
	if v := EaseOutBack(1); math.Abs(v-1) > 1e-9 {
		t.Errorf("EaseOutBack(1) = %v, 期望 1", v)
	}

	peak := 0.0
	for p := 0.0; p <= 1; p += 0.01 {
		peak = math.Max(peak, EaseOutBack(p))
	}
	if peak <= 1 || peak > 1.2 {
		t.Errorf("EaseOutBack 峰值 = %v, 期望略大于 1", peak)
	}
}

// TestProgress 测试进度计算与截断
func TestProgress(t *testing.T) {
	tests := []struct {
		name              string
		elapsed, duration float64
		expected          float64
	}{
		{"开始", 0, 2, 0},
		{"一半", 1, 2, 0.5},
		{"超时", 3, 2, 1},
		{"负数", -1, 2, 0},
		{"零时长", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.elapsed, tt.duration); got != tt.expected {
				t.Errorf("Progress(%v, %v) = %v, 期望 %v", tt.elapsed, tt.duration, got, tt.expected)
			}
		})
	}
}

// TestLerp 测试线性插值
func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.5, 5},
		{0.3, 1, 0.5, 0.65},
	}

	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, got, tt.expected)
		}
	}
}
