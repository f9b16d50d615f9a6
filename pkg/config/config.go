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

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"research-agent/pkg/log"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "configs/agent.yaml"

// Config 应用配置结构体
type Config struct {
	Model      ModelConfig      `mapstructure:"model"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Session    SessionConfig    `mapstructure:"session"`
	Log        log.Config       `mapstructure:"log"`
	RateLimits RateLimitsConfig `mapstructure:"rate_limits"`
}

// ModelConfig 文本生成模型配置
type ModelConfig struct {
	Mode    string `mapstructure:"mode"`    // mock | gemini | auto
	Model   string `mapstructure:"model"`   // 如 gemini-1.5-flash
	APIKey  string `mapstructure:"api_key"` // 支持 ${GEMINI_API_KEY} 形式
	Timeout string `mapstructure:"timeout"` // 单次生成超时，如 "30s"，空则默认 30s
}

// MemoryConfig 会话记忆配置
type MemoryConfig struct {
	MaxMessages int `mapstructure:"max_messages"` // 对话历史上限，<=0 使用默认 50
}

// SessionConfig 会话持久化配置
type SessionConfig struct {
	Store string `mapstructure:"store"` // file | postgres
	Path  string `mapstructure:"path"`  // file 模式的快照路径
	DSN   string `mapstructure:"dsn"`   // Postgres 连接串，store=postgres 时必填
}

// RateLimitsConfig LLM 限流配置
type RateLimitsConfig struct {
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"` // <=0 不限流
	Burst             int     `mapstructure:"burst"`               // <=0 时默认 1
}

// Default 返回默认配置（无配置文件时 demo 可直接运行）
func Default() *Config {
	return &Config{
		Model:   ModelConfig{Mode: "auto", Model: "gemini-1.5-flash", APIKey: "${GEMINI_API_KEY}", Timeout: "30s"},
		Memory:  MemoryConfig{MaxMessages: 50},
		Session: SessionConfig{Store: "file", Path: "logs/session.json"},
		Log:     log.Config{Level: "info", Format: "text"},
	}
}

// LoadConfig 从指定路径加载配置；文件不存在时返回默认配置
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	viper.SetConfigFile(configPath)
	viper.SetEnvPrefix("RESEARCH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	config := Default()
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	if err := replaceEnvVars(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadAgentConfig 加载默认路径配置
func LoadAgentConfig() (*Config, error) {
	return LoadConfig(DefaultConfigPath)
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Model.Mode {
	case "", "mock", "gemini", "auto":
	default:
		return fmt.Errorf("未知 model.mode: %s（可选 mock | gemini | auto）", c.Model.Mode)
	}
	switch c.Session.Store {
	case "", "file":
	case "postgres":
		if c.Session.DSN == "" {
			return fmt.Errorf("session.store=postgres 时 session.dsn 必填")
		}
	default:
		return fmt.Errorf("未知 session.store: %s（可选 file | postgres）", c.Session.Store)
	}
	return nil
}

// ModelTimeout 解析 model.timeout，非法或为空时返回默认 30s
func (c *Config) ModelTimeout() time.Duration {
	if c.Model.Timeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Model.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// replaceEnvVars 替换配置中的环境变量（API Key 不落盘）
func replaceEnvVars(config *Config) error {
	if strings.HasPrefix(config.Model.APIKey, "$") {
		envVar := strings.TrimPrefix(strings.TrimSuffix(config.Model.APIKey, "}"), "${")
		config.Model.APIKey = os.Getenv(envVar)
	}
	return nil
}
