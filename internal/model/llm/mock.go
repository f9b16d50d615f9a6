package llm

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// MockClient 本地固定响应客户端：无需凭证，demo 与测试用
type MockClient struct {
	callCount atomic.Int64
}

// NewMockClient 创建 Mock 客户端
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate 生成文本
func (c *MockClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 根据 prompt 内容返回分支化的固定响应
func (c *MockClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	c.callCount.Add(1)

	promptLower := strings.ToLower(prompt)

	switch {
	case strings.Contains(promptLower, "search") || strings.Contains(promptLower, "find"):
		return `Based on my search, here are the key findings:
1. The topic has several important aspects
2. Recent developments show significant progress
3. Expert consensus indicates this is a growing field

Would you like me to dive deeper into any specific area?`, nil

	case strings.Contains(promptLower, "summarize") || strings.Contains(promptLower, "summary"):
		return `Summary of key points:
- Main concept: The subject matter is complex but well-documented
- Key findings: Multiple sources confirm the central thesis
- Implications: This has broad applications across various domains
- Conclusion: Further research is recommended`, nil

	case strings.Contains(promptLower, "analyze") || strings.Contains(promptLower, "analysis"):
		return `Analysis:

Strengths:
- Well-supported by evidence
- Clear methodology
- Consistent results

Weaknesses:
- Limited scope in some areas
- Could benefit from additional data
- Some assumptions need validation

Overall assessment: The research is solid with room for expansion.`, nil

	default:
		head := prompt
		if len(head) > 100 {
			head = head[:100]
		}
		return fmt.Sprintf(`I understand you're asking about: %s...

Let me provide a comprehensive response:
- This is a well-researched topic with significant documentation
- There are multiple perspectives to consider
- The evidence suggests a nuanced understanding is necessary

Would you like me to explore any specific aspect in more detail?`, head), nil
	}
}

// CallCount 返回累计调用次数
func (c *MockClient) CallCount() int64 {
	return c.callCount.Load()
}

// Model 返回模型名称
func (c *MockClient) Model() string { return "mock" }

// Provider 返回提供商名称
func (c *MockClient) Provider() string { return "mock" }
