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

package orchestrator

import (
	"context"
	"strings"
	"testing"

	"research-agent/internal/agent/planner"
	"research-agent/internal/memory"
	"research-agent/internal/model/llm"
	"research-agent/internal/tool"
	"research-agent/internal/tool/builtin"
	"research-agent/internal/tool/registry"
	"research-agent/pkg/log"
)

// failingSynthClient 规划正常、综合阶段失败
type failingSynthClient struct {
	planReply string
}

func (c *failingSynthClient) Generate(prompt string, opts llm.GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, opts)
}

func (c *failingSynthClient) GenerateWithContext(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	if strings.Contains(prompt, "规划器") {
		return c.planReply, nil
	}
	return "", llm.ErrGeneration
}

func (c *failingSynthClient) Model() string    { return "failing-synth" }
func (c *failingSynthClient) Provider() string { return "test" }

// brokenTool 始终失败的工具
type brokenTool struct{}

func (brokenTool) Name() string        { return "web.search" }
func (brokenTool) Description() string { return "broken search" }
func (brokenTool) Schema() tool.Schema { return tool.Schema{Type: "object"} }
func (brokenTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	return tool.Result{}, context.DeadlineExceeded
}

func newTestOrchestrator(client llm.Client) (*Orchestrator, *memory.Store, *registry.Registry) {
	reg := registry.New()
	builtin.RegisterBuiltin(reg)
	mem := memory.NewStore(memory.DefaultMaxTurns)
	p := planner.NewPlanner(client, reg.Names())
	return New(client, p, reg, mem, log.Discard(), 0), mem, reg
}

func TestRunFullSequence(t *testing.T) {
	o, mem, _ := newTestOrchestrator(llm.NewMockClient())

	res, err := o.Run(context.Background(), "What is quantum computing?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want DONE", res.State)
	}
	if res.Response == "" {
		t.Fatal("empty response")
	}
	if len(res.ToolsUsed) == 0 {
		t.Fatalf("no tools used, plan = %+v", res.Plan)
	}
	if len(res.Findings) == 0 {
		t.Fatal("no findings collected")
	}

	// 记忆已更新：用户与助手各一轮，且有研究发现
	stats := mem.Conversation.Stats()
	if stats.TurnCount != 2 {
		t.Errorf("conversation turns = %d, want 2", stats.TurnCount)
	}
	if mem.Research.Count() == 0 {
		t.Error("no findings persisted to memory")
	}
}

func TestRunThreadsSearchURLIntoDocumentRead(t *testing.T) {
	// Mock 客户端的规划回复会提到 search，工具名匹配依赖注册表名称；
	// 用脚本化回复确保完整序列。
	client := &failingSynthClient{planReply: "web.search then document.read then data.analysis"}
	o, _, _ := newTestOrchestrator(client)

	res, err := o.Run(context.Background(), "NVIDIA earnings report")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var docInput map[string]any
	for _, inv := range res.Invocations {
		if inv.Tool == builtin.DocumentToolName {
			docInput = inv.Input
		}
	}
	if docInput == nil {
		t.Fatal("document.read was not invoked")
	}
	// 应串联搜索结果的第一条 URL，而非兜底 URL
	url, _ := docInput["url"].(string)
	if !strings.Contains(strings.ToLower(url), "nvda") {
		t.Errorf("document url = %q, want the first search result url", url)
	}
}

func TestRunSynthesisFallback(t *testing.T) {
	client := &failingSynthClient{planReply: "web.search, document.read, data.analysis"}
	o, _, _ := newTestOrchestrator(client)

	res, err := o.Run(context.Background(), "Tesla stock performance")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want DONE", res.State)
	}
	if !res.SynthesisFallback {
		t.Fatal("expected synthesis fallback")
	}
	if !strings.Contains(res.Response, "Key findings:") {
		t.Errorf("fallback response = %q", res.Response)
	}
}

func TestRunPlanningFallbackOnGenerationError(t *testing.T) {
	// 所有调用都失败：规划走默认计划，综合走模板响应
	o, _, _ := newTestOrchestrator(&alwaysFailClient{})

	res, err := o.Run(context.Background(), "What is quantum computing?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.PlanningFallback {
		t.Fatal("expected planning fallback")
	}
	if !res.Plan.Fallback {
		t.Fatal("plan should be the default sequence")
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want DONE despite degraded path", res.State)
	}
	// 默认序列三个工具都应执行成功
	if len(res.ToolsUsed) != 3 {
		t.Errorf("tools used = %v, want 3", res.ToolsUsed)
	}
}

type alwaysFailClient struct{}

func (alwaysFailClient) Generate(prompt string, opts llm.GenerateOptions) (string, error) {
	return "", llm.ErrGeneration
}

func (alwaysFailClient) GenerateWithContext(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	return "", llm.ErrGeneration
}

func (alwaysFailClient) Model() string    { return "always-fail" }
func (alwaysFailClient) Provider() string { return "test" }

func TestRunFailingToolDoesNotAbort(t *testing.T) {
	reg := registry.New()
	reg.Register(brokenTool{})
	reg.Register(builtin.NewDocumentTool())
	reg.Register(builtin.NewAnalysisTool())
	mem := memory.NewStore(memory.DefaultMaxTurns)
	client := llm.NewMockClient()
	p := planner.NewPlanner(client, reg.Names())
	o := New(client, p, reg, mem, log.Discard(), 0)

	res, err := o.Run(context.Background(), "search for machine learning trends")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("state = %s, want DONE", res.State)
	}
	for _, name := range res.ToolsUsed {
		if name == "web.search" {
			t.Error("failing tool should not be counted as used")
		}
	}
	var sawFailure bool
	for _, inv := range res.Invocations {
		if inv.Tool == "web.search" && !inv.Success {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Error("failed invocation should still be recorded")
	}
}

func TestRunCancelledContext(t *testing.T) {
	o, _, _ := newTestOrchestrator(llm.NewMockClient())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := o.Run(ctx, "anything")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if res.State != StateFailed {
		t.Fatalf("state = %s, want FAILED", res.State)
	}
}

func TestTopicOf(t *testing.T) {
	cases := map[string]string{
		"What is quantum computing?": "what-is-quantum-computing",
		"  NVIDIA  Earnings  ":       "nvidia-earnings",
		"???":                        "general",
	}
	for in, want := range cases {
		if got := topicOf(in); got != want {
			t.Errorf("topicOf(%q) = %q, want %q", in, got, want)
		}
	}
}
