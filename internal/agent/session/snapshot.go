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

// Package session 研究会话的快照与持久化。
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"research-agent/internal/agent/evaluator"
	"research-agent/internal/memory"
	"research-agent/internal/tool/registry"
)

// ErrCorruptSnapshot 快照数据损坏或不完整
var ErrCorruptSnapshot = errors.New("session: corrupt snapshot")

// Snapshot 会话的完整可序列化状态
type Snapshot struct {
	ID          string                         `json:"id"`
	CreatedAt   time.Time                      `json:"created_at"`
	SavedAt     time.Time                      `json:"saved_at"`
	TurnCount   int                            `json:"turn_count"`
	Memory      memory.Snapshot                `json:"memory"`
	Evaluations []evaluator.Result             `json:"evaluations"`
	ToolStats   map[string]registry.UsageStats `json:"tool_stats"`
}

// NewID 生成会话 ID
func NewID() string {
	return "session-" + uuid.New().String()
}

// Encode 序列化快照
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("session: 序列化快照失败: %w", err)
	}
	return data, nil
}

// Decode 反序列化快照；损坏的数据返回 ErrCorruptSnapshot
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: 缺少会话 ID", ErrCorruptSnapshot)
	}
	return &s, nil
}
