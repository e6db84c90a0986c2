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

package main

import (
	"github.com/kadirpekel/debatekit/orchestrator"
	"github.com/kadirpekel/debatekit/state"
	"github.com/kadirpekel/debatekit/tracing"
)

// metricsHooks increments the process's Prometheus counters as the
// orchestrator emits progress, alongside whatever tracing spans the
// configured backend records. The two are independent exposition surfaces
// of the same events, matching the teacher's pairing of a TracerProvider
// with a Prometheus registry.
type metricsHooks struct {
	orchestrator.NopHooks
	metrics *tracing.Metrics
}

func newMetricsHooks(m *tracing.Metrics) *metricsHooks {
	return &metricsHooks{metrics: m}
}

func (h *metricsHooks) OnAgentComplete(name, activity string) {
	h.metrics.AgentTurns.WithLabelValues(name, activity).Inc()
}

func (h *metricsHooks) OnSummarizationComplete(name string, beforeChars, afterChars int) {
	h.metrics.AgentTurns.WithLabelValues(name, "summarize").Inc()
}

// recordDebateOutcome increments the terminal-status counter once a run
// finishes, from the CLI boundary where the final state.Status is known.
func recordDebateOutcome(m *tracing.Metrics, status state.Status) {
	m.DebatesTotal.WithLabelValues(string(status)).Inc()
}
