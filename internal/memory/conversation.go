// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// 对话角色
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// DefaultMaxTurns 对话历史默认上限
const DefaultMaxTurns = 50

// Turn 单条对话记录，追加后不可变
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation 对话历史：按插入顺序保存，超出上限时丢弃最旧的
type Conversation struct {
	mu       sync.RWMutex
	turns    []Turn
	maxTurns int
}

// NewConversation 创建对话历史，maxTurns <= 0 使用默认 50
func NewConversation(maxTurns int) *Conversation {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Conversation{maxTurns: maxTurns}
}

// AddTurn 追加一条对话记录
func (c *Conversation) AddTurn(role, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Role: role, Text: text, Timestamp: time.Now()})
	if len(c.turns) > c.maxTurns {
		c.turns = c.turns[len(c.turns)-c.maxTurns:]
	}
}

// Context 返回最近 n 条记录（时间顺序）；n <= 0 返回空
func (c *Conversation) Context(n int) []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(c.turns) {
		n = len(c.turns)
	}
	out := make([]Turn, n)
	copy(out, c.turns[len(c.turns)-n:])
	return out
}

// ContextString 将最近 n 条记录渲染为 prompt 片段
func (c *Conversation) ContextString(n int) string {
	turns := c.Context(n)
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, fmt.Sprintf("[%s]: %s", strings.ToUpper(t.Role), t.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Len 返回当前记录数
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// ConversationStats 对话统计摘要
type ConversationStats struct {
	TurnCount  int       `json:"turn_count"`
	UserTurns  int       `json:"user_turns"`
	AgentTurns int       `json:"agent_turns"`
	FirstAt    time.Time `json:"first_at,omitzero"`
	LastAt     time.Time `json:"last_at,omitzero"`
}

// Stats 返回统计摘要
func (c *Conversation) Stats() ConversationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := ConversationStats{TurnCount: len(c.turns)}
	for _, t := range c.turns {
		switch t.Role {
		case RoleUser:
			stats.UserTurns++
		case RoleAgent:
			stats.AgentTurns++
		}
	}
	if len(c.turns) > 0 {
		stats.FirstAt = c.turns[0].Timestamp
		stats.LastAt = c.turns[len(c.turns)-1].Timestamp
	}
	return stats
}

// copyTurns 全量拷贝（序列化用）
func (c *Conversation) copyTurns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// restoreTurns 覆盖当前历史（反序列化用）
func (c *Conversation) restoreTurns(turns []Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = make([]Turn, len(turns))
	copy(c.turns, turns)
}
