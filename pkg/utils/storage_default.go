//go:build !android

package utils

// EnsureStorageDir 桌面与 iOS 上 gdata 会自行创建存档目录
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 只有 Android 需要显式的存储路径，其余平台返回空字符串
func GetStoragePath() string {
	return ""
}
