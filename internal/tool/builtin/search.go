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
	"fmt"
	"strings"

	"research-agent/internal/tool"
)

// SearchToolName web.search 工具名
const SearchToolName = "web.search"

const defaultMaxResults = 5

// SearchTool 模拟网络搜索：按主题返回固定语料，无真实网络请求
type SearchTool struct{}

// NewSearchTool 创建 web.search 工具
func NewSearchTool() *SearchTool {
	return &SearchTool{}
}

// Name 实现 tool.Tool
func (t *SearchTool) Name() string { return SearchToolName }

// Description 实现 tool.Tool
func (t *SearchTool) Description() string {
	return "Search the web for information on a given query"
}

// Schema 实现 tool.Tool
func (t *SearchTool) Schema() tool.Schema {
	return tool.Schema{
		Type:        "object",
		Description: "网络搜索参数",
		Properties: map[string]tool.SchemaProperty{
			"query":       {Type: "string", Description: "搜索关键词"},
			"max_results": {Type: "number", Description: "最多返回条数（默认 5）"},
		},
		Required: []string{"query"},
	}
}

// Execute 实现 tool.Tool
func (t *SearchTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	query, _ := input["query"].(string)
	if query == "" {
		return tool.Result{Err: "query 不能为空"}, nil
	}
	maxResults := defaultMaxResults
	if n, ok := input["max_results"].(float64); ok && int(n) > 0 {
		maxResults = int(n)
	}

	results := cannedSearchResults(query)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	out := SearchOutput{Query: query, Results: results, Count: len(results)}
	raw, err := json.Marshal(out)
	if err != nil {
		return tool.Result{Err: err.Error()}, nil
	}
	return tool.Result{Content: string(raw)}, nil
}

// cannedSearchResults 按查询主题选择固定语料
func cannedSearchResults(query string) []SearchResult {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, "nvidia", "nvda"):
		return []SearchResult{
			{
				Title:   "NVIDIA Stock (NVDA) Real-Time Quote - Nov 2025",
				URL:     "https://finance.yahoo.com/quote/NVDA",
				Snippet: "NVIDIA Corporation (NVDA) current price: $495.20. Last 30 days: +12.5% (+$55.10). High: $505.30, Low: $440.10. Strong performance driven by AI chip demand and data center growth.",
			},
			{
				Title:   "NVIDIA Stock Analysis - AI Boom Continues",
				URL:     "https://www.bloomberg.com/nvidia-analysis",
				Snippet: "NVIDIA shares surge 12.5% in past month reaching $495.20. Analysts cite robust Q4 earnings, new H200 GPU launch, and cloud AI partnerships. Price target raised to $550.",
			},
			{
				Title:   "Why NVIDIA Stock is Up This Month - Market Watch",
				URL:     "https://marketwatch.com/nvidia-november",
				Snippet: "Key factors driving NVIDIA's 12.5% gain: Q4 revenue beat at $18.1B, data center revenue up 41%, new AI partnerships, strong 2025 guidance.",
			},
		}
	case containsAny(q, "tesla", "tsla"):
		return []SearchResult{
			{
				Title:   "Tesla Inc (TSLA) Stock Price - Real-Time",
				URL:     "https://finance.yahoo.com/quote/TSLA",
				Snippet: "Tesla (TSLA) current: $242.80. Last 30 days: +8.3% (+$18.60). Range: $224.20-$251.50. Model 3 sales strong in Europe. Cybertruck production ramping up.",
			},
		}
	case containsAny(q, "machine learning", "ml"):
		return []SearchResult{
			{
				Title:   "Machine Learning: Complete Guide 2025",
				URL:     "https://towardsdatascience.com/ml-guide",
				Snippet: "Machine Learning is a subset of AI enabling systems to learn from data. Key types: Supervised (classification, regression), Unsupervised (clustering), Reinforcement learning.",
			},
			{
				Title:   "Latest Advances in ML - November 2025",
				URL:     "https://arxiv.org/ml-advances",
				Snippet: "Recent breakthroughs: GPT-5 with 10T parameters, diffusion models for video generation, quantum ML algorithms. Growing applications in healthcare, finance, autonomous vehicles.",
			},
		}
	case strings.Contains(q, "quantum"):
		return []SearchResult{
			{
				Title:   "Quantum Computing Explained - 2025 Update",
				URL:     "https://quantumcomputing.com/guide",
				Snippet: "Quantum computers use qubits for parallel processing via superposition and entanglement. IBM's 1121-qubit processor, Google's error correction breakthrough. Applications: cryptography, drug discovery, optimization.",
			},
			{
				Title:   "Latest Quantum Computing Developments",
				URL:     "https://nature.com/quantum-news",
				Snippet: "IBM achieves quantum advantage in chemistry simulations. Microsoft Azure Quantum available commercially. Quantum internet prototype tested.",
			},
		}
	default:
		return []SearchResult{
			{
				Title:   fmt.Sprintf("Comprehensive Guide: %s", query),
				URL:     "https://example.com/guide",
				Snippet: fmt.Sprintf("Detailed information about %s: current state, recent developments, expert analysis, and practical applications. Updated November 2025.", query),
			},
			{
				Title:   fmt.Sprintf("%s - Latest Research 2025", query),
				URL:     "https://example.com/research",
				Snippet: fmt.Sprintf("Recent advances in %s: key findings from leading institutions, emerging trends, and future outlook.", query),
			},
			{
				Title:   fmt.Sprintf("%s: Practical Applications", query),
				URL:     "https://example.com/applications",
				Snippet: fmt.Sprintf("Real-world applications of %s: case studies, success stories, implementation guides, and best practices.", query),
			},
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
