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

package session

import (
	"context"
	"os"
	"path/filepath"

	pkgerrors "research-agent/pkg/errors"
)

// Store 会话快照存储抽象
type Store interface {
	// Put 保存快照（同 ID 覆盖）
	Put(ctx context.Context, s *Snapshot) error
	// Get 读取快照；id 为空时返回最近保存的快照；不存在返回 (nil, nil)
	Get(ctx context.Context, id string) (*Snapshot, error)
}

// FileStore 单文件 JSON 实现：保存最近一次的会话快照
type FileStore struct {
	path string
}

// NewFileStore 创建文件存储；path 为快照文件路径
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Put 实现 Store：先写临时文件再重命名，避免写到一半的快照被读到
func (f *FileStore) Put(ctx context.Context, s *Snapshot) error {
	if s == nil {
		return nil
	}
	data, err := s.Encode()
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrap(err, "session: 创建目录失败")
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return pkgerrors.Wrap(err, "session: 创建临时文件失败")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.Wrap(err, "session: 写入快照失败")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(err, "session: 关闭临时文件失败")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(err, "session: 替换快照文件失败")
	}
	return nil
}

// Get 实现 Store
func (f *FileStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "session: 读取快照文件失败")
	}
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if id != "" && s.ID != id {
		return nil, nil
	}
	return s, nil
}
