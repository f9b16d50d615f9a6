package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"research-agent/internal/tool"
)

// AnalysisToolName data.analysis 工具名
const AnalysisToolName = "data.analysis"

// AnalysisTool 模拟数据分析：汇总多来源结果为综合结论
type AnalysisTool struct{}

// NewAnalysisTool 创建 data.analysis 工具
func NewAnalysisTool() *AnalysisTool {
	return &AnalysisTool{}
}

// Name 实现 tool.Tool
func (t *AnalysisTool) Name() string { return AnalysisToolName }

// Description 实现 tool.Tool
func (t *AnalysisTool) Description() string {
	return "Analyze and synthesize information from multiple sources"
}

// Schema 实现 tool.Tool
func (t *AnalysisTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "数据分析参数",
		Properties: map[string]tool.SchemaProperty{
			"findings":      {Type: "array", Description: "待分析的发现列表"},
			"analysis_type": {Type: "string", Description: "分析类型（默认 synthesis）"},
		},
		Required: []string{"findings"},
	}
}

// Execute 实现 tool.Tool
func (t *AnalysisTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	findings, _ := input["findings"].([]any)
	if len(findings) == 0 {
		return tool.Result{Err: "findings 不能为空"}, nil
	}
	analysisType, _ := input["analysis_type"].(string)
	if analysisType == "" {
		analysisType = "synthesis"
	}

	out := AnalysisOutput{
		AnalysisType: analysisType,
		DataPoints:   len(findings),
		Insights: []string{
			"Common theme identified across sources",
			"Contradictions found requiring further investigation",
			"Strong consensus on key points",
			"Gaps identified in current research",
		},
		Summary:    fmt.Sprintf("Analysis of %d data points reveals consistent patterns and some areas needing further research.", len(findings)),
		Confidence: 0.85,
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	return tool.Result{Content: string(raw)}, nil
}
