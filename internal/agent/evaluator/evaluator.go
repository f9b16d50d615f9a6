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

// Package evaluator 对完成的研究轮次做多维质量评分。
package evaluator

import (
	"math"
	"strings"
	"time"
)

// 评分维度名
const (
	MetricSpeed        = "response_speed"
	MetricCompleteness = "response_completeness"
	MetricEfficiency   = "tool_usage_efficiency"
)

// Result 单轮评分结果（创建后不可变）
type Result struct {
	OverallScore float64            `json:"overall_score"`
	Metrics      map[string]float64 `json:"metrics"`
	ResponseTime float64            `json:"response_time"` // 秒
	ToolsUsed    []string           `json:"tools_used"`
	At           time.Time          `json:"at"`
}

// Evaluate 纯函数评分：响应文本 + 耗时 + 使用的工具。
// 各维度裁剪到 [0,100]，总分为三维算术平均。
func Evaluate(responseText string, elapsedSeconds float64, toolsUsed []string) Result {
	metrics := map[string]float64{
		MetricSpeed:        scoreSpeed(elapsedSeconds),
		MetricCompleteness: scoreCompleteness(responseText),
		MetricEfficiency:   scoreToolUsage(toolsUsed),
	}
	sum := 0.0
	for _, v := range metrics {
		sum += v
	}
	overall := clamp(sum / float64(len(metrics)))

	return Result{
		OverallScore: round2(overall),
		Metrics:      metrics,
		ResponseTime: round3(elapsedSeconds),
		ToolsUsed:    append([]string(nil), toolsUsed...),
		At:           time.Now(),
	}
}

// scoreSpeed 响应速度。边界取更严的档位：2.0s 记 80 而非 100。
func scoreSpeed(elapsed float64) float64 {
	switch {
	case elapsed < 2:
		return 100
	case elapsed < 5:
		return 80
	case elapsed < 10:
		return 60
	default:
		return 40
	}
}

// scoreCompleteness 响应完整度：长度分档 + 结构加分。
// 不足 50 字符的响应始终低于 50 分。
func scoreCompleteness(response string) float64 {
	length := len(response)
	var base float64
	switch {
	case length < 50:
		return 30
	case length < 200:
		base = 60
	case length < 500:
		base = 85
	default:
		base = 95
	}
	if hasStructure(response) {
		base += 5
	}
	return clamp(base)
}

// hasStructure 多句或分条的响应视为有结构
func hasStructure(response string) bool {
	if strings.Count(response, "\n") >= 2 {
		return true
	}
	sentences := 0
	for _, sep := range []string{". ", "! ", "? "} {
		sentences += strings.Count(response, sep)
	}
	return sentences >= 2
}

// scoreToolUsage 工具使用效率，按去重后的工具数分档
func scoreToolUsage(toolsUsed []string) float64 {
	distinct := make(map[string]struct{}, len(toolsUsed))
	for _, name := range toolsUsed {
		distinct[name] = struct{}{}
	}
	switch count := len(distinct); {
	case count == 0:
		return 40
	case count == 1:
		return 70
	case count <= 3:
		return 100
	case count == 4:
		return 75
	default:
		return 50
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
