// Copyright 2025 Kadir Pekel
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

package tracing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the trimmed Prometheus surface for the debate engine: debate,
// agent, tool, and LLM call counters. The teacher's memory/session/HTTP
// transport/RAG subsystems have no equivalent here (see DESIGN.md).
type Metrics struct {
	DebatesTotal   *prometheus.CounterVec
	AgentTurns     *prometheus.CounterVec
	ToolCalls      *prometheus.CounterVec
	LLMCalls       *prometheus.CounterVec
	LLMLatency     *prometheus.HistogramVec
}

// NewMetrics registers and returns the engine's metrics against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to expose via the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DebatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "debatekit_debates_total",
			Help: "Total debates run, labeled by terminal status.",
		}, []string{"status"}),
		AgentTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "debatekit_agent_turns_total",
			Help: "Agent turns, labeled by agent name and phase.",
		}, []string{"agent", "phase"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "debatekit_tool_calls_total",
			Help: "Tool invocations, labeled by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		LLMCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "debatekit_llm_calls_total",
			Help: "Capability calls, labeled by provider and outcome.",
		}, []string{"provider", "outcome"}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "debatekit_llm_latency_seconds",
			Help:    "Capability call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	reg.MustRegister(m.DebatesTotal, m.AgentTurns, m.ToolCalls, m.LLMCalls, m.LLMLatency)
	return m
}
