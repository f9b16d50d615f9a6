package llm

import (
	"context"

	"research-agent/pkg/log"
)

// FallbackClient 主客户端失败时改用备用客户端（通常为 Mock）。
// 降级只影响当次调用，下一次仍先尝试主客户端。
type FallbackClient struct {
	primary  Client
	fallback Client
	logger   *log.Logger
}

// NewFallbackClient 创建带降级的客户端；logger 为 nil 时丢弃日志
func NewFallbackClient(primary, fallback Client, logger *log.Logger) *FallbackClient {
	if logger == nil {
		logger = log.Discard()
	}
	return &FallbackClient{primary: primary, fallback: fallback, logger: logger}
}

// Generate 生成文本
func (c *FallbackClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 先走主客户端，失败时静默降级并记录 warn 日志
func (c *FallbackClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	text, err := c.primary.GenerateWithContext(ctx, prompt, options)
	if err == nil {
		return text, nil
	}
	if c.fallback == nil {
		return "", err
	}
	c.logger.Warn("主模型生成失败，降级到备用客户端", "provider", c.primary.Provider(), "error", err)
	return c.fallback.GenerateWithContext(ctx, prompt, options)
}

// Model 返回主客户端模型名称
func (c *FallbackClient) Model() string { return c.primary.Model() }

// Provider 返回主客户端提供商名称
func (c *FallbackClient) Provider() string { return c.primary.Provider() }
