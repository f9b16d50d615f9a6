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

// Package planner 将研究问题转为工具调用计划。
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"research-agent/internal/model/llm"
	"research-agent/internal/tool/builtin"
)

// Plan 一次研究轮次的执行计划：按顺序调用的工具
type Plan struct {
	Query     string   `json:"query"`
	Tools     []string `json:"tools"`
	Rationale string   `json:"rationale"` // 模型原始规划文本
	Fallback  bool     `json:"fallback"`  // 是否为兜底计划
}

// Planner 基于 LLM 为研究问题生成计划
type Planner struct {
	client llm.Client
	known  []string
}

// NewPlanner 创建 Planner。known 为可用工具名（通常来自注册表）
func NewPlanner(client llm.Client, known []string) *Planner {
	return &Planner{client: client, known: known}
}

// DefaultPlan 兜底计划：完整的 搜索 -> 读文档 -> 分析 序列
func DefaultPlan(query string) *Plan {
	return &Plan{
		Query: query,
		Tools: []string{
			builtin.SearchToolName,
			builtin.DocumentToolName,
			builtin.AnalysisToolName,
		},
		Rationale: "default research sequence",
		Fallback:  true,
	}
}

// Plan 生成计划：构建含工具清单与会话上下文的提示词，从模型回复中
// 提取工具名。LLM 调用失败时返回错误，由调用方决定兜底。
func (p *Planner) Plan(ctx context.Context, query, toolsSchemaJSON, contextStr string) (*Plan, error) {
	if p.client == nil {
		return nil, fmt.Errorf("planner: 未配置 LLM client")
	}
	prompt := buildPrompt(query, toolsSchemaJSON, contextStr)

	opts := llm.GenerateOptions{MaxTokens: 1024, Temperature: 0.2}
	reply, err := p.client.GenerateWithContext(ctx, prompt, opts)
	if err != nil {
		return nil, fmt.Errorf("planner: 生成计划失败: %w", err)
	}

	tools := p.extractToolNames(reply)
	plan := &Plan{Query: query, Tools: tools, Rationale: strings.TrimSpace(reply)}
	if len(tools) == 0 {
		// 回复中无可识别的工具名，退化为完整序列
		fallback := DefaultPlan(query)
		fallback.Rationale = plan.Rationale
		return fallback, nil
	}
	return plan, nil
}

func buildPrompt(query, toolsSchemaJSON, contextStr string) string {
	var b strings.Builder
	b.WriteString("你是一个研究助理的任务规划器。根据用户问题选择要调用的工具。\n")
	b.WriteString("可用工具（JSON）：\n")
	if toolsSchemaJSON == "" {
		toolsSchemaJSON = "[]"
	}
	b.WriteString(toolsSchemaJSON)
	b.WriteString("\n\n")
	if contextStr != "" {
		b.WriteString("近期对话：\n")
		b.WriteString(contextStr)
		b.WriteString("\n\n")
	}
	b.WriteString("用户问题：")
	b.WriteString(query)
	b.WriteString("\n请列出要依次调用的工具名。")
	return b.String()
}

// extractToolNames 在模型回复中匹配已知工具名（大小写不敏感），
// 按首次出现位置排序，每个工具最多出现一次。
func (p *Planner) extractToolNames(reply string) []string {
	lower := strings.ToLower(reply)
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, name := range p.known {
		if pos := strings.Index(lower, strings.ToLower(name)); pos >= 0 {
			hits = append(hits, hit{name: name, pos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	tools := make([]string, 0, len(hits))
	for _, h := range hits {
		tools = append(tools, h.name)
	}
	return tools
}
