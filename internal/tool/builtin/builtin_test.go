package builtin

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"research-agent/internal/tool/registry"
)

func TestSearchTool_CannedTopics(t *testing.T) {
	st := NewSearchTool()

	res, err := st.Execute(context.Background(), map[string]any{"query": "what is quantum computing?"})
	if err != nil || res.Err != "" {
		t.Fatalf("Execute: err=%v result.Err=%s", err, res.Err)
	}
	var out SearchOutput
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || !strings.Contains(out.Results[0].Snippet, "qubit") {
		t.Errorf("quantum corpus: %+v", out)
	}

	res, _ = st.Execute(context.Background(), map[string]any{"query": "history of jazz"})
	_ = json.Unmarshal([]byte(res.Content), &out)
	if out.Count != 3 || !strings.Contains(out.Results[0].Title, "history of jazz") {
		t.Errorf("generic corpus: %+v", out)
	}
}

func TestSearchTool_MaxResults(t *testing.T) {
	st := NewSearchTool()
	res, _ := st.Execute(context.Background(), map[string]any{"query": "nvidia stock", "max_results": float64(1)})
	var out SearchOutput
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Results) != 1 {
		t.Errorf("max_results: %+v", out)
	}
}

func TestSearchTool_EmptyQuery(t *testing.T) {
	st := NewSearchTool()
	res, err := st.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Err == "" {
		t.Error("empty query should produce a tool-level error")
	}
}

func TestDocumentTool_Extract(t *testing.T) {
	dt := NewDocumentTool()
	res, err := dt.Execute(context.Background(), map[string]any{"url": "https://nature.com/quantum-news"})
	if err != nil || res.Err != "" {
		t.Fatalf("Execute: err=%v result.Err=%s", err, res.Err)
	}
	var out DocumentOutput
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ExtractType != "summary" || len(out.Content.KeyFindings) == 0 {
		t.Errorf("document output: %+v", out)
	}
	if !strings.Contains(out.Content.Title, "Quantum") {
		t.Errorf("topic selection: %s", out.Content.Title)
	}
}

func TestAnalysisTool_Synthesis(t *testing.T) {
	at := NewAnalysisTool()
	findings := []any{
		map[string]any{"text": "f1"},
		map[string]any{"text": "f2"},
		map[string]any{"text": "f3"},
	}
	res, err := at.Execute(context.Background(), map[string]any{"findings": findings})
	if err != nil || res.Err != "" {
		t.Fatalf("Execute: err=%v result.Err=%s", err, res.Err)
	}
	var out AnalysisOutput
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.DataPoints != 3 || out.Confidence != 0.85 || len(out.Insights) == 0 {
		t.Errorf("analysis output: %+v", out)
	}

	res, _ = at.Execute(context.Background(), map[string]any{"findings": []any{}})
	if res.Err == "" {
		t.Error("empty findings should produce a tool-level error")
	}
}

func TestRegisterBuiltin(t *testing.T) {
	reg := registry.New()
	RegisterBuiltin(reg)
	names := reg.Names()
	want := []string{AnalysisToolName, DocumentToolName, SearchToolName}
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("tool %d: %s != %s", i, names[i], n)
		}
	}
}
