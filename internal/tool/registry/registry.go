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

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"research-agent/internal/tool"
	"research-agent/pkg/metrics"
)

// ErrUnknownTool 按名称查找不到工具
var ErrUnknownTool = errors.New("unknown tool")

// UsageStats 单个工具的累计使用统计
type UsageStats struct {
	Invocations  int     `json:"invocations"`
	Failures     int     `json:"failures"`
	TotalSeconds float64 `json:"total_seconds"`
}

// AvgSeconds 平均单次耗时（秒）
func (s UsageStats) AvgSeconds() float64 {
	if s.Invocations == 0 {
		return 0
	}
	return s.TotalSeconds / float64(s.Invocations)
}

// Registry 工具注册表：注册、发现、按名称计时调用、使用统计
type Registry struct {
	mu    sync.RWMutex
	tools map[string]tool.Tool
	stats map[string]*UsageStats
}

// New 创建工具注册表
func New() *Registry {
	return &Registry{
		tools: make(map[string]tool.Tool),
		stats: make(map[string]*UsageStats),
	}
}

// Register 注册工具
func (r *Registry) Register(t tool.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
	if _, ok := r.stats[t.Name()]; !ok {
		r.stats[t.Name()] = &UsageStats{}
	}
}

// Get 按名称获取工具
func (r *Registry) Get(name string) (tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names 返回已注册工具名（排序后）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toolDesc 供 Planner prompt 使用的工具描述
type toolDesc struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Schema      tool.Schema `json:"schema"`
}

// SchemaJSON 返回所有工具的名称 / 描述 / Schema（JSON，名称排序）
func (r *Registry) SchemaJSON() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs := make([]toolDesc, 0, len(r.tools))
	for _, t := range r.tools {
		descs = append(descs, toolDesc{Name: t.Name(), Description: t.Description(), Schema: t.Schema()})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	raw, _ := json.Marshal(descs)
	return raw
}

// Invoke 按名称计时调用工具。工具内部失败（含 panic）吸收为
// Success=false 的记录；仅查不到工具时返回 ErrUnknownTool。
func (r *Registry) Invoke(ctx context.Context, name string, input map[string]any) (tool.Invocation, error) {
	t, ok := r.Get(name)
	if !ok {
		return tool.Invocation{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	inv := tool.Invocation{Tool: name, Input: input, At: time.Now()}
	start := time.Now()
	result := runGuarded(ctx, t, input)
	inv.Duration = time.Since(start).Seconds()
	inv.Output = result.Content
	inv.Err = result.Err
	inv.Success = result.Err == ""

	outcome := "ok"
	if !inv.Success {
		outcome = "error"
	}
	metrics.ToolDuration.WithLabelValues(name).Observe(inv.Duration)
	metrics.ToolTotal.WithLabelValues(name, outcome).Inc()

	r.mu.Lock()
	st := r.stats[name]
	st.Invocations++
	st.TotalSeconds += inv.Duration
	if !inv.Success {
		st.Failures++
	}
	r.mu.Unlock()

	return inv, nil
}

// runGuarded 执行工具并吸收 error 与 panic
func runGuarded(ctx context.Context, t tool.Tool, input map[string]any) (result tool.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = tool.Result{Err: fmt.Sprintf("tool panic: %v", rec)}
		}
	}()
	res, err := t.Execute(ctx, input)
	if err != nil {
		return tool.Result{Err: err.Error()}
	}
	return res
}

// Stats 返回所有工具的使用统计拷贝
func (r *Registry) Stats() map[string]UsageStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]UsageStats, len(r.stats))
	for name, st := range r.stats {
		out[name] = *st
	}
	return out
}

// RestoreStats 用快照覆盖使用统计（会话恢复用）
func (r *Registry) RestoreStats(stats map[string]UsageStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, st := range stats {
		copied := st
		r.stats[name] = &copied
	}
}
