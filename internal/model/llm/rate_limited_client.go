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

package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient 包装任意 LLM Client，在真实调用前执行限流等待。
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient 创建带限流的 LLM 客户端。requestsPerMinute <= 0 时不限流。
func NewRateLimitedClient(inner Client, requestsPerMinute float64, burst int) *RateLimitedClient {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)
	}
	return &RateLimitedClient{inner: inner, limiter: limiter}
}

// Generate 实现 Client.Generate
func (c *RateLimitedClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 实现 Client.GenerateWithContext，调用前执行限流等待。
// 等待期间 context 超时视同生成失败，调用方走降级路径。
func (c *RateLimitedClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: 限流等待中断: %v", ErrGeneration, err)
		}
	}
	return c.inner.GenerateWithContext(ctx, prompt, options)
}

// Model 返回内层模型名称
func (c *RateLimitedClient) Model() string { return c.inner.Model() }

// Provider 返回内层提供商名称
func (c *RateLimitedClient) Provider() string { return c.inner.Provider() }
