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

package evaluator

import (
	"strings"
	"testing"
)

func TestScoreSpeedBuckets(t *testing.T) {
	cases := []struct {
		elapsed float64
		want    float64
	}{
		{0.5, 100},
		{1.9, 100},
		{2.0, 80}, // 边界落入慢档
		{4.9, 80},
		{5.0, 60},
		{9.9, 60},
		{10.0, 40},
		{60.0, 40},
	}
	for _, c := range cases {
		if got := scoreSpeed(c.elapsed); got != c.want {
			t.Errorf("scoreSpeed(%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestScoreCompleteness(t *testing.T) {
	short := "too short"
	if got := scoreCompleteness(short); got != 30 {
		t.Fatalf("short response score = %v, want 30", got)
	}
	if got := scoreCompleteness(""); got >= 50 {
		t.Fatalf("empty response score = %v, want < 50", got)
	}

	// 无结构的中等长度响应
	medium := strings.Repeat("a", 120)
	if got := scoreCompleteness(medium); got != 60 {
		t.Fatalf("medium response score = %v, want 60", got)
	}

	// 带结构加分
	structured := "First finding here. Second finding here. Third finding here. " + strings.Repeat("x", 80)
	if got := scoreCompleteness(structured); got != 65 {
		t.Fatalf("structured response score = %v, want 65", got)
	}

	long := strings.Repeat("Detailed analysis follows. ", 30)
	if got := scoreCompleteness(long); got != 100 {
		t.Fatalf("long structured response score = %v, want 100", got)
	}
}

func TestScoreToolUsage(t *testing.T) {
	cases := []struct {
		tools []string
		want  float64
	}{
		{nil, 40},
		{[]string{"web.search"}, 70},
		{[]string{"web.search", "document.read"}, 100},
		{[]string{"web.search", "document.read", "data.analysis"}, 100},
		{[]string{"a", "b", "c", "d"}, 75},
		{[]string{"a", "b", "c", "d", "e"}, 50},
		// 重复调用同一工具只计一次
		{[]string{"web.search", "web.search", "web.search"}, 70},
	}
	for _, c := range cases {
		if got := scoreToolUsage(c.tools); got != c.want {
			t.Errorf("scoreToolUsage(%v) = %v, want %v", c.tools, got, c.want)
		}
	}
}

func TestEvaluateOverall(t *testing.T) {
	response := "Quantum computing uses qubits. Superposition enables parallelism. Entanglement links qubit states. " + strings.Repeat("More detail. ", 20)
	r := Evaluate(response, 1.2, []string{"web.search", "document.read", "data.analysis"})

	if r.Metrics[MetricSpeed] != 100 {
		t.Errorf("speed = %v, want 100", r.Metrics[MetricSpeed])
	}
	if r.Metrics[MetricEfficiency] != 100 {
		t.Errorf("efficiency = %v, want 100", r.Metrics[MetricEfficiency])
	}
	if r.Metrics[MetricCompleteness] < 80 {
		t.Errorf("completeness = %v, want >= 80", r.Metrics[MetricCompleteness])
	}
	if r.OverallScore < 90 || r.OverallScore > 100 {
		t.Errorf("overall = %v, want in [90,100]", r.OverallScore)
	}
	if len(r.ToolsUsed) != 3 {
		t.Errorf("tools used = %v", r.ToolsUsed)
	}
}

func TestEvaluateClampsOverall(t *testing.T) {
	r := Evaluate("", 999, nil)
	if r.OverallScore < 0 || r.OverallScore > 100 {
		t.Fatalf("overall out of range: %v", r.OverallScore)
	}
}

func TestTrackerStats(t *testing.T) {
	tr := NewTracker()
	if s := tr.Stats(); s.TotalEvaluations != 0 {
		t.Fatalf("empty tracker reported %d evaluations", s.TotalEvaluations)
	}

	tr.Record(Evaluate(strings.Repeat("Result. ", 50), 1.0, []string{"web.search", "document.read"}))
	tr.Record(Evaluate("short", 6.0, nil))

	s := tr.Stats()
	if s.TotalEvaluations != 2 {
		t.Fatalf("total = %d, want 2", s.TotalEvaluations)
	}
	if s.MinScore >= s.MaxScore {
		t.Errorf("min %v should be below max %v", s.MinScore, s.MaxScore)
	}
	if s.ToolUsage["web.search"] != 1 || s.ToolUsage["document.read"] != 1 {
		t.Errorf("tool usage = %v", s.ToolUsage)
	}
	if s.AverageResponseTime != 3.5 {
		t.Errorf("avg response time = %v, want 3.5", s.AverageResponseTime)
	}
}

func TestTrackerRestore(t *testing.T) {
	tr := NewTracker()
	tr.Record(Evaluate("one", 1, nil))

	replacement := []Result{
		Evaluate(strings.Repeat("x", 600), 2, []string{"web.search"}),
		Evaluate(strings.Repeat("y", 600), 3, []string{"web.search"}),
	}
	tr.Restore(replacement)

	if got := len(tr.Results()); got != 2 {
		t.Fatalf("restored results = %d, want 2", got)
	}
	if s := tr.Stats(); s.ToolUsage["web.search"] != 2 {
		t.Errorf("tool usage after restore = %v", s.ToolUsage)
	}
}
