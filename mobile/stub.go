//go:build !mobile

// Package mobile 的桌面端占位：真正的入口在 mobile.go，只在 -tags mobile 时编译
package mobile

// Dummy 保证包在桌面构建时也能被引用
func Dummy() {}
