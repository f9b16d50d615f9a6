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
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt 持久化数据损坏（反序列化失败，向调用方直接暴露）
var ErrCorrupt = errors.New("corrupt memory snapshot")

// Store 记忆存储：对话历史 + 研究记忆，整体可序列化
type Store struct {
	Conversation *Conversation
	Research     *Research
}

// NewStore 创建记忆存储
func NewStore(maxTurns int) *Store {
	return &Store{
		Conversation: NewConversation(maxTurns),
		Research:     NewResearch(),
	}
}

// Snapshot 持久化表示（字段顺序即恢复顺序）
type Snapshot struct {
	Turns    []Turn    `json:"turns"`
	Findings []Finding `json:"findings"`
	Sources  []string  `json:"sources,omitempty"`
	Topics   []string  `json:"topics,omitempty"`
}

// Snapshot 导出当前全量状态
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Turns:    s.Conversation.copyTurns(),
		Findings: s.Research.Findings(),
		Sources:  s.Research.Sources(),
		Topics:   s.Research.Topics(),
	}
}

// Restore 用快照覆盖当前状态
func (s *Store) Restore(snap Snapshot) {
	s.Conversation.restoreTurns(snap.Turns)
	s.Research.restore(snap.Findings, snap.Sources, snap.Topics)
}

// Serialize 序列化为 JSON；与 Deserialize 往返无损
func (s *Store) Serialize() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// Deserialize 从 JSON 恢复；数据非法时返回 ErrCorrupt
func (s *Store) Deserialize(blob []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.Restore(snap)
	return nil
}
