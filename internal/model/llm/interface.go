package llm

import (
	"context"
	"errors"
	"fmt"

	"research-agent/pkg/log"
)

// ErrGeneration 文本生成失败（调用方据此走降级路径）
var ErrGeneration = errors.New("llm generation failed")

// Client LLM 客户端接口
type Client interface {
	// Generate 生成文本
	Generate(prompt string, options GenerateOptions) (string, error)
	// GenerateWithContext 使用上下文生成文本
	GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop"`
}

// NewClient 创建 LLM 客户端。mode: mock | gemini | auto。
// auto 模式在 apiKey 为空时退化为 mock（本地 demo 无需凭证即可运行）。
// logger 用于降级告警，nil 时丢弃。
func NewClient(mode, model, apiKey string, logger *log.Logger) (Client, error) {
	switch mode {
	case "mock":
		return NewMockClient(), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini 模式需要 API Key（GEMINI_API_KEY）")
		}
		return NewGeminiClient(model, apiKey)
	case "auto", "":
		if apiKey == "" {
			return NewMockClient(), nil
		}
		gemini, err := NewGeminiClient(model, apiKey)
		if err != nil {
			return nil, err
		}
		return NewFallbackClient(gemini, NewMockClient(), logger), nil
	default:
		return nil, fmt.Errorf("未知 LLM 模式: %s", mode)
	}
}
