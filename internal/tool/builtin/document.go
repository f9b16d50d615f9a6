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

package builtin

import (
	"context"
	"encoding/json"
	"strings"

	"research-agent/internal/tool"
)

// DocumentToolName document.read 工具名
const DocumentToolName = "document.read"

// DocumentTool 模拟文档阅读：按来源标识返回抽取要点，无真实解析
type DocumentTool struct{}

// NewDocumentTool 创建 document.read 工具
func NewDocumentTool() *DocumentTool {
	return &DocumentTool{}
}

// Name 实现 tool.Tool
func (t *DocumentTool) Name() string { return DocumentToolName }

// Description 实现 tool.Tool
func (t *DocumentTool) Description() string {
	return "Read and extract key information from documents"
}

// Schema 实现 tool.Tool
func (t *DocumentTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "文档阅读参数",
		Properties: map[string]tool.SchemaProperty{
			"url":          {Type: "string", Description: "文档来源标识（URL）"},
			"extract_type": {Type: "string", Description: "抽取类型（默认 summary）"},
		},
		Required: []string{"url"},
	}
}

// Execute 实现 tool.Tool
func (t *DocumentTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	url, _ := input["url"].(string)
	if url == "" {
		return tool.Result{Err: "url 不能为空"}, nil
	}
	extractType, _ := input["extract_type"].(string)
	if extractType == "" {
		extractType = "summary"
	}

	out := DocumentOutput{
		URL:         url,
		ExtractType: extractType,
		Content:     cannedDocument(url),
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	return tool.Result{Content: string(raw)}, nil
}

// cannedDocument 按 URL 主题选择固定抽取结果
func cannedDocument(url string) DocumentContent {
	u := strings.ToLower(url)
	switch {
	case containsAny(u, "nvidia", "nvda"):
		return DocumentContent{
			Title:    "NVIDIA Q4 2025 Financial Results and Market Analysis",
			Authors:  []string{"Goldman Sachs Research", "Morgan Stanley Analysis Team"},
			Date:     "November 10, 2025",
			Abstract: "NVIDIA reports exceptional Q4 performance with revenue reaching $18.1 billion, driven by unprecedented demand for AI accelerators and data center solutions.",
			KeyFindings: []string{
				"Stock price: $495.20 (+12.5% monthly gain, +55.10 points)",
				"Q4 Revenue: $18.1B, beating estimates by 8.5%",
				"Data Center segment up 41% YoY, driven by H200 GPU adoption",
				"New partnerships with Microsoft Azure, Google Cloud, Amazon AWS",
				"2025 guidance raised: expected revenue growth 30-35%",
			},
			Summary: "NVIDIA demonstrates exceptional momentum in AI chip market with strong financials, strategic partnerships, and robust guidance.",
		}
	case containsAny(u, "tesla", "tsla"):
		return DocumentContent{
			Title:    "Tesla Stock Performance Analysis - November 2025",
			Authors:  []string{"UBS Investment Research"},
			Date:     "November 12, 2025",
			Abstract: "Tesla stock analysis showing 8.3% monthly gain driven by production ramp and European sales.",
			KeyFindings: []string{
				"Current price: $242.80 (+8.3% monthly, +18.60 points)",
				"Cybertruck production ramping: 5,000 units/week achieved",
				"Model 3/Y sales up 22% in Europe amid EV incentives",
				"Energy storage deployments at record 3.5 GWh in Q3",
			},
			Summary: "Tesla showing solid operational execution with production milestones and geographic expansion.",
		}
	case containsAny(u, "machine learning", "ml"):
		return DocumentContent{
			Title:    "Machine Learning: State of the Art 2025",
			Authors:  []string{"Dr. Andrew Ng", "Prof. Yann LeCun", "Dr. Fei-Fei Li"},
			Date:     "November 2025",
			Abstract: "Comprehensive review of machine learning advances including transformer models, multimodal learning, and real-world applications.",
			KeyFindings: []string{
				"Transformer architecture dominates: GPT, BERT, Vision Transformers",
				"Multimodal models (text+image+audio) showing breakthrough results",
				"Few-shot learning enabling rapid adaptation with minimal data",
				"ML deployment in production: healthcare diagnostics, autonomous vehicles, financial trading",
			},
			Summary: "ML field experiencing rapid innovation with practical applications transforming industries.",
		}
	case strings.Contains(u, "quantum"):
		return DocumentContent{
			Title:    "Quantum Computing Breakthroughs 2025",
			Authors:  []string{"IBM Quantum Research", "Google Quantum AI"},
			Date:     "November 2025",
			Abstract: "Recent quantum computing advances including error correction, qubit scaling, and commercial applications.",
			KeyFindings: []string{
				"IBM achieves 1121-qubit processor with improved coherence times",
				"Google demonstrates quantum error correction at scale",
				"Quantum advantage proven for chemistry simulations and cryptography",
				"Commercial quantum cloud services: IBM Quantum, Azure Quantum, Amazon Braket",
			},
			Summary: "Quantum computing transitioning from research to practical applications with improved hardware and accessible cloud platforms.",
		}
	default:
		return DocumentContent{
			Title:    "Research Document Analysis",
			Authors:  []string{"Research Team"},
			Date:     "November 2025",
			Abstract: "Comprehensive analysis of current topic with latest research and industry insights.",
			KeyFindings: []string{
				"Current state: rapidly evolving field with significant research activity",
				"Key trends: innovation accelerating, practical applications emerging",
				"Industry impact: major companies investing heavily in development",
				"Future outlook: continued growth expected with broader adoption",
			},
			Summary: "Field showing strong momentum with research breakthroughs translating to practical applications.",
		}
	}
}
