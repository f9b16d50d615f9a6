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
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StorePg Postgres 实现的会话快照存储
type StorePg struct {
	pool *pgxpool.Pool
}

// NewStorePg 创建基于 PostgreSQL 的会话存储并初始化表结构
func NewStorePg(ctx context.Context, dsn string) (*StorePg, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s := &StorePg{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close 关闭连接池
func (s *StorePg) Close() {
	s.pool.Close()
}

func (s *StorePg) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS research_sessions (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

// Put 实现 Store：同 ID 覆盖
func (s *StorePg) Put(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return nil
	}
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO research_sessions (id, payload, created_at, saved_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at`,
		snap.ID, data, snap.CreatedAt, snap.SavedAt)
	return err
}

// Get 实现 Store；id 为空时返回最近保存的快照
func (s *StorePg) Get(ctx context.Context, id string) (*Snapshot, error) {
	var payload []byte
	var err error
	if id == "" {
		err = s.pool.QueryRow(ctx,
			`SELECT payload FROM research_sessions ORDER BY saved_at DESC LIMIT 1`).Scan(&payload)
	} else {
		err = s.pool.QueryRow(ctx,
			`SELECT payload FROM research_sessions WHERE id = $1`, id).Scan(&payload)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return Decode(payload)
}
