package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundID 音效标识
type SoundID int

const (
	// SoundPortalPop 传送门被摧毁
	SoundPortalPop SoundID = iota
	// SoundBallPlaced 小球放置完成
	SoundBallPlaced
	// SoundPortalSpawn 新传送门出现
	SoundPortalSpawn
)

// AudioSampleRate 音频上下文采样率
const AudioSampleRate = 48000

// AudioManager 音频管理器
//
// 游戏没有音频文件，所有音效在启动时合成为 16 位小端立体声 PCM，
// 播放时按 SettingsManager 中的开关和音量处理。
// context 为 nil 时（测试或无音频设备）所有播放请求直接返回 false。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager
	sounds          map[SoundID][]byte
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: 音频上下文，可为 nil
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		sounds: map[SoundID][]byte{
			SoundPortalPop:   synthesizeSweep(AudioSampleRate, 880, 330, 0.09),
			SoundBallPlaced:  synthesizeSweep(AudioSampleRate, 523, 1046, 0.18),
			SoundPortalSpawn: synthesizeSweep(AudioSampleRate, 220, 440, 0.06),
		},
	}
}

// PlaySound 播放音效，返回是否实际播放
func (am *AudioManager) PlaySound(id SoundID) bool {
	if am.context == nil {
		return false
	}

	volume := 1.0
	if am.settingsManager != nil {
		settings := am.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false
		}
		volume = settings.SoundVolume
	}

	pcm, ok := am.sounds[id]
	if !ok {
		log.Printf("[AudioManager] Warning: unknown sound %d", id)
		return false
	}

	player := am.context.NewPlayerFromBytes(pcm)
	player.SetVolume(volume)
	player.Play()
	return true
}

// synthesizeSweep 合成一段频率线性滑动、指数衰减的正弦音
//
// 输出为 16 位有符号小端、双声道交错 PCM。
func synthesizeSweep(sampleRate int, startHz, endHz, seconds float64) []byte {
	n := int(float64(sampleRate) * seconds)
	out := make([]byte, n*4)

	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := startHz + (endHz-startHz)*t
		phase += 2 * math.Pi * freq / float64(sampleRate)

		// 5ms 起音，避免爆音
		attack := math.Min(1, float64(i)/(0.005*float64(sampleRate)))
		envelope := attack * math.Exp(-4*t)
		sample := int16(math.Sin(phase) * envelope * 0.6 * math.MaxInt16)

		binary.LittleEndian.PutUint16(out[i*4:], uint16(sample))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(sample))
	}
	return out
}
