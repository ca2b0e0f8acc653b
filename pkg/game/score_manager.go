package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ScoreRecord 跨会话保存的成绩
type ScoreRecord struct {
	BestScore      int       `yaml:"bestScore"`      // 单局最高摧毁数
	TotalDestroyed int       `yaml:"totalDestroyed"` // 历史累计摧毁数
	SessionsPlayed int       `yaml:"sessionsPlayed"` // 已完成的会话数
	LastPlayedAt   time.Time `yaml:"lastPlayedAt"`   // 最近一次会话结束时间
}

// 存储路径常量
const (
	scoreObject   = "score"
	scoreProperty = "record"
)

// ScoreManager 成绩管理器
//
// 会话内的得分由 SpawnState.DestroyedCount 维护，这里只负责跨会话的持久化：
//   - ObserveScore 在得分变化时刷新最高分
//   - RecordSession 在会话结束时累计统计（每个会话只记录一次）
//
// gdataManager 为 nil 时进入降级模式，仅在内存中保存。
type ScoreManager struct {
	gdataManager    *gdata.Manager
	record          ScoreRecord
	sessionRecorded bool
	now             func() time.Time
}

// NewScoreManager 创建成绩管理器并尝试加载已保存的成绩
func NewScoreManager(gdataManager *gdata.Manager) (*ScoreManager, error) {
	sm := &ScoreManager{
		gdataManager: gdataManager,
		now:          time.Now,
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，从零开始
		log.Printf("[ScoreManager] Warning: Failed to load score: %v (starting fresh)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载成绩，不存在时保持零值
func (sm *ScoreManager) Load() error {
	if sm.gdataManager == nil {
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(scoreObject, scoreProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(scoreObject, scoreProperty)
	if err != nil {
		return fmt.Errorf("failed to load score: %w", err)
	}

	var record ScoreRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to unmarshal score: %w", err)
	}

	sm.record = record
	log.Printf("[ScoreManager] Score loaded: best=%d total=%d sessions=%d",
		record.BestScore, record.TotalDestroyed, record.SessionsPlayed)
	return nil
}

// Save 保存成绩到 gdata，降级模式下直接返回 nil
func (sm *ScoreManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(&sm.record)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(scoreObject, scoreProperty, data); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	return nil
}

// GetRecord 返回成绩快照
func (sm *ScoreManager) GetRecord() ScoreRecord {
	return sm.record
}

// BestScore 历史最高分
func (sm *ScoreManager) BestScore() int {
	return sm.record.BestScore
}

// ObserveScore 用会话当前得分刷新最高分
//
// 返回 true 表示刷新了最高分。只修改内存，需调用 Save() 持久化。
func (sm *ScoreManager) ObserveScore(score int) bool {
	if score <= sm.record.BestScore {
		return false
	}
	sm.record.BestScore = score
	return true
}

// RecordSession 会话结束时累计统计，同一会话重复调用只生效一次
func (sm *ScoreManager) RecordSession(score int) {
	if sm.sessionRecorded {
		return
	}
	sm.sessionRecorded = true

	sm.ObserveScore(score)
	sm.record.TotalDestroyed += score
	sm.record.SessionsPlayed++
	sm.record.LastPlayedAt = sm.now()
	log.Printf("[ScoreManager] Session recorded: score=%d best=%d", score, sm.record.BestScore)
}
