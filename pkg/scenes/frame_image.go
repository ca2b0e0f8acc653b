package scenes

import (
	"log"

	"github.com/decker502/arportal/pkg/ar"
)

// frameImage 每帧最多获取一次相机图像，背景绘制和取色共用
type frameImage struct {
	frame    ar.TrackedFrame
	img      ar.CameraImage
	err      error
	acquired bool
}

// Get 首次调用时获取图像，之后返回同一结果
func (f *frameImage) Get() (ar.CameraImage, error) {
	if !f.acquired {
		f.acquired = true
		f.img, f.err = f.frame.AcquireCameraImage()
	}
	return f.img, f.err
}

// Close 释放已获取的图像
func (f *frameImage) Close() {
	if f.img == nil {
		return
	}
	if err := f.img.Close(); err != nil {
		log.Printf("[ARScene] Warning: failed to close camera image: %v", err)
	}
	f.img = nil
}
