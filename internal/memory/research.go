package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrValidation Finding 入参非法（text 或 source 为空）
var ErrValidation = errors.New("invalid finding")

// Finding 单条研究发现，追加后不可变
type Finding struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

// Research 研究记忆：发现列表 + 去重后的来源与主题
type Research struct {
	mu       sync.RWMutex
	findings []Finding
	sources  []string
	topics   []string
}

// NewResearch 创建研究记忆
func NewResearch() *Research {
	return &Research{}
}

// AddFinding 追加一条发现；text 或 source 为空时返回 ErrValidation
func (r *Research) AddFinding(text, source, topic string) error {
	if text == "" {
		return fmt.Errorf("%w: text 不能为空", ErrValidation)
	}
	if source == "" {
		return fmt.Errorf("%w: source 不能为空", ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, Finding{Text: text, Source: source, Topic: topic, Timestamp: time.Now()})
	if !contains(r.sources, source) {
		r.sources = append(r.sources, source)
	}
	if topic != "" && !contains(r.topics, topic) {
		r.topics = append(r.topics, topic)
	}
	return nil
}

// FindingsForTopic 返回指定主题的所有发现（插入顺序）
func (r *Research) FindingsForTopic(topic string) []Finding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Finding
	for _, f := range r.findings {
		if f.Topic == topic {
			out = append(out, f)
		}
	}
	return out
}

// Findings 返回全部发现的拷贝
func (r *Research) Findings() []Finding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// Sources 返回去重后的来源列表
func (r *Research) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.sources))
	copy(out, r.sources)
	return out
}

// Topics 返回去重后的主题列表
func (r *Research) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.topics))
	copy(out, r.topics)
	return out
}

// Count 返回发现总数
func (r *Research) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.findings)
}

func (r *Research) restore(findings []Finding, sources, topics []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append([]Finding(nil), findings...)
	r.sources = append([]string(nil), sources...)
	r.topics = append([]string(nil), topics...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
