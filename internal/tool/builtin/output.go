package builtin

// 工具输出的结构化载荷：Execute 返回其 JSON 序列化，
// 编排器按需反序列化提取 findings。

// SearchResult 单条搜索结果
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchOutput web.search 的输出
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// DocumentContent 文档抽取内容
type DocumentContent struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors,omitempty"`
	Date        string   `json:"date,omitempty"`
	Abstract    string   `json:"abstract,omitempty"`
	KeyFindings []string `json:"key_findings"`
	Summary     string   `json:"summary"`
}

// DocumentOutput document.read 的输出
type DocumentOutput struct {
	URL         string          `json:"url"`
	ExtractType string          `json:"extract_type"`
	Content     DocumentContent `json:"content"`
}

// AnalysisOutput data.analysis 的输出
type AnalysisOutput struct {
	AnalysisType string   `json:"analysis_type"`
	DataPoints   int      `json:"data_points"`
	Insights     []string `json:"insights"`
	Summary      string   `json:"summary"`
	Confidence   float64  `json:"confidence"`
}
