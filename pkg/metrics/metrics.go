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

// Package metrics 进程级 Prometheus 指标：研究轮次、工具调用、LLM 生成。
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// DefaultRegistry 进程级指标注册表
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		TurnDuration, TurnTotal, TurnScore,
		ToolDuration, ToolTotal,
		GenerateTotal, GenerateFallbackTotal,
	)
}

// TurnDuration 单次 research 轮次耗时（秒）
var TurnDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "resagent_turn_duration_seconds",
		Help:    "research 轮次耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
)

// TurnTotal research 轮次总数（按终态）
var TurnTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resagent_turn_total",
		Help: "research 轮次总数（按终态）",
	},
	[]string{"state"}, // done | failed
)

// TurnScore 最近轮次综合评分
var TurnScore = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "resagent_turn_score",
		Help: "最近一次 research 轮次综合评分（0-100）",
	},
)

// ToolDuration 工具调用耗时（秒）
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "resagent_tool_duration_seconds",
		Help:    "工具调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// ToolTotal 工具调用总数（按结果）
var ToolTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resagent_tool_total",
		Help: "工具调用总数（按结果）",
	},
	[]string{"tool", "outcome"}, // ok | error
)

// GenerateTotal LLM 生成调用总数（按 provider）
var GenerateTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resagent_generate_total",
		Help: "LLM 生成调用总数",
	},
	[]string{"provider"},
)

// GenerateFallbackTotal 生成失败降级次数（按阶段）
var GenerateFallbackTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resagent_generate_fallback_total",
		Help: "LLM 生成失败触发降级的次数",
	},
	[]string{"phase"}, // planning | synthesizing
)

// WritePrometheus 将 Prometheus 文本格式写入 w（CLI status 用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
