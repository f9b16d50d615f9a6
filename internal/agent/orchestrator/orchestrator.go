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

// Package orchestrator 驱动单轮研究：规划 -> 执行 -> 综合。
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"research-agent/internal/agent/planner"
	"research-agent/internal/memory"
	"research-agent/internal/model/llm"
	"research-agent/internal/tool"
	"research-agent/internal/tool/builtin"
	"research-agent/internal/tool/registry"
	"research-agent/pkg/log"
	"research-agent/pkg/metrics"
)

// State 轮次状态机
type State string

const (
	StatePlanning     State = "PLANNING"
	StateExecuting    State = "EXECUTING"
	StateSynthesizing State = "SYNTHESIZING"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

// contextTurns 提示词中携带的近期对话轮数
const contextTurns = 6

// TurnResult 一轮研究的完整结果
type TurnResult struct {
	Query             string            `json:"query"`
	Response          string            `json:"response"`
	State             State             `json:"state"`
	Plan              *planner.Plan     `json:"plan"`
	ToolsUsed         []string          `json:"tools_used"`
	Invocations       []tool.Invocation `json:"invocations"`
	Findings          []memory.Finding  `json:"findings"`
	Elapsed           float64           `json:"elapsed"`          // 秒
	PlanningSeconds   float64           `json:"planning_seconds"` // 规划阶段耗时
	PlanningFallback  bool              `json:"planning_fallback"`
	SynthesisFallback bool              `json:"synthesis_fallback"`
}

// Orchestrator 研究轮次的状态机执行器
type Orchestrator struct {
	client  llm.Client
	planner *planner.Planner
	reg     *registry.Registry
	mem     *memory.Store
	logger  *log.Logger
	timeout time.Duration
}

// New 创建 Orchestrator；timeout 为单次 LLM 调用的超时（<=0 用 30s）
func New(client llm.Client, p *planner.Planner, reg *registry.Registry, mem *memory.Store, logger *log.Logger, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Orchestrator{client: client, planner: p, reg: reg, mem: mem, logger: logger, timeout: timeout}
}

// Run 执行一轮研究。工具失败与 LLM 失败都走降级路径，轮次总能
// 产出响应；只有外部取消会让状态落在 FAILED。
func (o *Orchestrator) Run(ctx context.Context, query string) (*TurnResult, error) {
	start := time.Now()
	result := &TurnResult{Query: query, State: StatePlanning}

	o.mem.Conversation.AddTurn(memory.RoleUser, query)

	planStart := time.Now()
	plan := o.plan(ctx, query, result)
	result.Plan = plan
	result.PlanningSeconds = time.Since(planStart).Seconds()

	result.State = StateExecuting
	findings := o.execute(ctx, plan, result)

	result.State = StateSynthesizing
	response := o.synthesize(ctx, query, findings, result)
	result.Response = response

	o.mem.Conversation.AddTurn(memory.RoleAgent, response)
	for _, f := range findings {
		if err := o.mem.Research.AddFinding(f.Text, f.Source, f.Topic); err != nil {
			o.logger.Warn("记录研究发现失败", "error", err)
		}
	}
	result.Findings = findings

	result.Elapsed = time.Since(start).Seconds()
	if ctx.Err() != nil {
		result.State = StateFailed
		metrics.TurnTotal.WithLabelValues("failed").Inc()
		metrics.TurnDuration.Observe(result.Elapsed)
		return result, fmt.Errorf("orchestrator: 轮次被取消: %w", ctx.Err())
	}
	result.State = StateDone
	metrics.TurnTotal.WithLabelValues("done").Inc()
	metrics.TurnDuration.Observe(result.Elapsed)
	return result, nil
}

// plan 规划阶段：LLM 失败时退化为完整默认序列
func (o *Orchestrator) plan(ctx context.Context, query string, result *TurnResult) *planner.Plan {
	pctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	contextStr := o.mem.Conversation.ContextString(contextTurns)
	plan, err := o.planner.Plan(pctx, query, string(o.reg.SchemaJSON()), contextStr)
	if err != nil {
		o.logger.Warn("规划失败，使用默认计划", "error", err)
		metrics.GenerateFallbackTotal.WithLabelValues("planning").Inc()
		result.PlanningFallback = true
		return planner.DefaultPlan(query)
	}
	o.logger.Info("计划生成完成", "tools", plan.Tools, "fallback", plan.Fallback)
	return plan
}

// execute 执行阶段：依次调用计划中的工具，失败的调用记录后继续
func (o *Orchestrator) execute(ctx context.Context, plan *planner.Plan, result *TurnResult) []memory.Finding {
	topic := topicOf(plan.Query)
	var findings []memory.Finding
	var searchURLs []string

	for _, name := range plan.Tools {
		input := o.buildInput(name, plan.Query, searchURLs, findings)
		inv, err := o.reg.Invoke(ctx, name, input)
		if err != nil {
			// 只有未注册的工具会走到这里
			o.logger.Warn("跳过未知工具", "tool", name, "error", err)
			continue
		}
		result.Invocations = append(result.Invocations, inv)
		if !inv.Success {
			o.logger.Warn("工具调用失败", "tool", name, "error", inv.Err)
			continue
		}
		result.ToolsUsed = append(result.ToolsUsed, name)

		switch name {
		case builtin.SearchToolName:
			urls, fs := parseSearch(inv.Output, topic)
			searchURLs = append(searchURLs, urls...)
			findings = append(findings, fs...)
		case builtin.DocumentToolName:
			findings = append(findings, parseDocument(inv.Output, topic)...)
		case builtin.AnalysisToolName:
			findings = append(findings, parseAnalysis(inv.Output, topic)...)
		}
	}
	return findings
}

// buildInput 为每个内置工具构造入参，串联前序工具的产出
func (o *Orchestrator) buildInput(name, query string, searchURLs []string, findings []memory.Finding) map[string]any {
	switch name {
	case builtin.SearchToolName:
		return map[string]any{"query": query, "max_results": float64(5)}
	case builtin.DocumentToolName:
		url := "https://research.example.com/" + topicOf(query)
		if len(searchURLs) > 0 {
			url = searchURLs[0]
		}
		return map[string]any{"url": url, "extract_type": "summary"}
	case builtin.AnalysisToolName:
		items := make([]any, 0, len(findings))
		for _, f := range findings {
			items = append(items, f.Text)
		}
		return map[string]any{"findings": items, "analysis_type": "synthesis"}
	default:
		return map[string]any{"query": query}
	}
}

// synthesize 综合阶段：LLM 失败时用研究发现拼装模板响应
func (o *Orchestrator) synthesize(ctx context.Context, query string, findings []memory.Finding, result *TurnResult) string {
	sctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := buildSynthesisPrompt(query, findings, o.mem.Conversation.ContextString(contextTurns))
	opts := llm.GenerateOptions{MaxTokens: 2048, Temperature: 0.7}
	reply, err := o.client.GenerateWithContext(sctx, prompt, opts)
	if err != nil {
		o.logger.Warn("综合失败，使用模板响应", "error", err)
		metrics.GenerateFallbackTotal.WithLabelValues("synthesizing").Inc()
		result.SynthesisFallback = true
		return fallbackResponse(query, findings)
	}
	return strings.TrimSpace(reply)
}

func buildSynthesisPrompt(query string, findings []memory.Finding, contextStr string) string {
	var b strings.Builder
	b.WriteString("你是一个研究助理。基于以下研究发现回答用户问题，给出结构化的总结。\n\n")
	if contextStr != "" {
		b.WriteString("近期对话：\n")
		b.WriteString(contextStr)
		b.WriteString("\n\n")
	}
	b.WriteString("研究发现：\n")
	if len(findings) == 0 {
		b.WriteString("（无）\n")
	}
	for i, f := range findings {
		fmt.Fprintf(&b, "%d. %s (来源: %s)\n", i+1, f.Text, f.Source)
	}
	b.WriteString("\n用户问题：")
	b.WriteString(query)
	return b.String()
}

// fallbackResponse 无 LLM 可用时的模板响应
func fallbackResponse(query string, findings []memory.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research summary for: %s\n\n", query)
	if len(findings) == 0 {
		b.WriteString("No findings were collected for this query. Please try rephrasing or check tool availability.")
		return b.String()
	}
	b.WriteString("Key findings:\n")
	for i, f := range findings {
		fmt.Fprintf(&b, "%d. %s (source: %s)\n", i+1, f.Text, f.Source)
	}
	fmt.Fprintf(&b, "\nBased on %d findings collected during research.", len(findings))
	return b.String()
}

func parseSearch(output, topic string) (urls []string, findings []memory.Finding) {
	var out builtin.SearchOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		return nil, nil
	}
	for _, r := range out.Results {
		urls = append(urls, r.URL)
		findings = append(findings, memory.Finding{
			Text:   r.Title + ": " + r.Snippet,
			Source: r.URL,
			Topic:  topic,
		})
	}
	return urls, findings
}

func parseDocument(output, topic string) []memory.Finding {
	var out builtin.DocumentOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		return nil
	}
	var findings []memory.Finding
	for _, kf := range out.Content.KeyFindings {
		findings = append(findings, memory.Finding{Text: kf, Source: out.URL, Topic: topic})
	}
	if out.Content.Summary != "" {
		findings = append(findings, memory.Finding{Text: out.Content.Summary, Source: out.URL, Topic: topic})
	}
	return findings
}

func parseAnalysis(output, topic string) []memory.Finding {
	var out builtin.AnalysisOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		return nil
	}
	var findings []memory.Finding
	for _, in := range out.Insights {
		findings = append(findings, memory.Finding{Text: in, Source: "analysis", Topic: topic})
	}
	return findings
}

// topicOf 从问题派生主题标签：小写、空白转连字符、截断
func topicOf(query string) string {
	topic := strings.ToLower(strings.TrimSpace(query))
	topic = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '\t':
			return '-'
		default:
			return -1
		}
	}, topic)
	for strings.Contains(topic, "--") {
		topic = strings.ReplaceAll(topic, "--", "-")
	}
	topic = strings.Trim(topic, "-")
	if len(topic) > 40 {
		topic = topic[:40]
	}
	if topic == "" {
		topic = "general"
	}
	return topic
}
