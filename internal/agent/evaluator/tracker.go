package evaluator

import (
	"sync"
	"time"
)

// SessionStats 一个会话内的累计评分统计
type SessionStats struct {
	TotalEvaluations    int            `json:"total_evaluations"`
	AverageScore        float64        `json:"average_score"`
	MinScore            float64        `json:"min_score"`
	MaxScore            float64        `json:"max_score"`
	AverageResponseTime float64        `json:"average_response_time"`
	AverageToolsUsed    float64        `json:"average_tools_used"`
	ToolUsage           map[string]int `json:"tool_usage"`
	SessionSeconds      float64        `json:"session_seconds"`
}

// Tracker 跨轮次累积评分结果，供状态查询与会话持久化使用
type Tracker struct {
	mu      sync.RWMutex
	results []Result
	started time.Time
}

func NewTracker() *Tracker {
	return &Tracker{started: time.Now()}
}

// Record 追加一轮评分结果
func (t *Tracker) Record(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append(t.results, r)
}

// Results 返回已记录结果的副本（按记录顺序）
func (t *Tracker) Results() []Result {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Result(nil), t.results...)
}

// Stats 汇总当前会话的评分统计
func (t *Tracker) Stats() SessionStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := SessionStats{
		ToolUsage:      map[string]int{},
		SessionSeconds: round3(time.Since(t.started).Seconds()),
	}
	if len(t.results) == 0 {
		return stats
	}

	stats.TotalEvaluations = len(t.results)
	stats.MinScore = t.results[0].OverallScore
	stats.MaxScore = t.results[0].OverallScore

	var scoreSum, timeSum, toolSum float64
	for _, r := range t.results {
		scoreSum += r.OverallScore
		timeSum += r.ResponseTime
		toolSum += float64(len(r.ToolsUsed))
		if r.OverallScore < stats.MinScore {
			stats.MinScore = r.OverallScore
		}
		if r.OverallScore > stats.MaxScore {
			stats.MaxScore = r.OverallScore
		}
		for _, name := range r.ToolsUsed {
			stats.ToolUsage[name]++
		}
	}
	n := float64(len(t.results))
	stats.AverageScore = round2(scoreSum / n)
	stats.AverageResponseTime = round3(timeSum / n)
	stats.AverageToolsUsed = round2(toolSum / n)
	return stats
}

// Restore 用持久化的结果重建跟踪器状态（覆盖已有记录）
func (t *Tracker) Restore(results []Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append([]Result(nil), results...)
}
