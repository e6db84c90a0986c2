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

// Package tracing wraps agent methods, capability calls, and tool
// executions in OpenTelemetry spans when enabled (spec §4.9). Every hook
// is best-effort: a tracing failure is logged and swallowed, never
// propagated as a functional error (spec §7, TracingError).
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Manager owns the process-scoped tracer provider (the one legitimate
// global besides provider credentials, per spec §5) and the per-agent
// "current span" map spec §4.9 requires.
type Manager struct {
	provider *trace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool

	mu          sync.Mutex
	agentSpans  map[string][]oteltrace.Span
	agentCtx    map[string][]context.Context
	iterCounter map[string]int
}

// NewManager wraps an already-configured TracerProvider. Pass nil to get a
// disabled Manager whose hooks are all no-ops.
func NewManager(provider *trace.TracerProvider) *Manager {
	m := &Manager{
		agentSpans:  make(map[string][]oteltrace.Span),
		agentCtx:    make(map[string][]context.Context),
		iterCounter: make(map[string]int),
	}
	if provider == nil {
		return m
	}
	m.provider = provider
	m.tracer = provider.Tracer("debatekit")
	m.enabled = true
	return m
}

// Shutdown flushes and releases the tracer provider, if any.
func (m *Manager) Shutdown(ctx context.Context) {
	if !m.enabled {
		return
	}
	if err := m.provider.Shutdown(ctx); err != nil {
		slog.Warn("tracing: shutdown failed", "error", err)
	}
}

// StartAgentMethod opens the `agent-<method>-<agentId>` span for one
// invocation, saving any previous span under the same agent id so
// re-entrant calls nest correctly, and resets that agent's generation
// iteration counter.
func (m *Manager) StartAgentMethod(ctx context.Context, agentID, method string) context.Context {
	if !m.enabled {
		return ctx
	}
	spanName := fmt.Sprintf("agent-%s-%s", method, agentID)
	spanCtx, span := m.tracer.Start(ctx, spanName, oteltrace.WithAttributes(
		attribute.String("agent.id", agentID),
		attribute.String("agent.method", method),
	))

	m.mu.Lock()
	m.agentSpans[agentID] = append(m.agentSpans[agentID], span)
	m.agentCtx[agentID] = append(m.agentCtx[agentID], spanCtx)
	m.iterCounter[agentID] = 0
	m.mu.Unlock()

	return spanCtx
}

// EndAgentMethod closes the agent's innermost active span, popping it off
// the per-agent stack so a re-entrant call's own earlier EndAgentMethod
// restores (rather than loses) the span it had open before the inner call
// started.
func (m *Manager) EndAgentMethod(agentID string, err error) {
	if !m.enabled {
		return
	}
	m.mu.Lock()
	var span oteltrace.Span
	if spans := m.agentSpans[agentID]; len(spans) > 0 {
		span = spans[len(spans)-1]
		if len(spans) == 1 {
			delete(m.agentSpans, agentID)
		} else {
			m.agentSpans[agentID] = spans[:len(spans)-1]
		}
	}
	if ctxs := m.agentCtx[agentID]; len(ctxs) > 0 {
		if len(ctxs) == 1 {
			delete(m.agentCtx, agentID)
		} else {
			m.agentCtx[agentID] = ctxs[:len(ctxs)-1]
		}
	}
	m.mu.Unlock()
	if span == nil {
		return
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

// StartGeneration opens a `generation` child span under the active
// per-agent span, or directly under ctx if no agent is active (e.g. a
// judge synthesis running without an owning agent span). The iteration
// counter increments per call and resets at each agent-method boundary.
func (m *Manager) StartGeneration(ctx context.Context, agentID, model string) (context.Context, func(output string, usageTokens int, err error)) {
	if !m.enabled {
		return ctx, func(string, int, error) {}
	}

	m.mu.Lock()
	if ctxs := m.agentCtx[agentID]; len(ctxs) > 0 {
		ctx = ctxs[len(ctxs)-1]
	}
	m.iterCounter[agentID]++
	iter := m.iterCounter[agentID]
	m.mu.Unlock()

	spanCtx, span := m.tracer.Start(ctx, "generation", oteltrace.WithAttributes(
		attribute.String("llm.model", model),
		attribute.Int("generation.iteration", iter),
	))

	end := func(output string, usageTokens int, err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Warn("tracing: recovered panic ending generation span", "panic", r)
			}
		}()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetAttributes(attribute.String("llm.output", truncate(output, 2000)))
			if usageTokens > 0 {
				span.SetAttributes(attribute.Int("llm.tokens", usageTokens))
			}
		}
		span.End()
	}
	return spanCtx, end
}

// StartTool opens a span for one tool execution under the agent's active
// span.
func (m *Manager) StartTool(ctx context.Context, agentID, toolName string) (context.Context, func(envelope string)) {
	if !m.enabled {
		return ctx, func(string) {}
	}

	m.mu.Lock()
	if ctxs := m.agentCtx[agentID]; len(ctxs) > 0 {
		ctx = ctxs[len(ctxs)-1]
	}
	m.mu.Unlock()

	spanCtx, span := m.tracer.Start(ctx, "tool-"+toolName, oteltrace.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("agent.id", agentID),
	))

	end := func(envelope string) {
		defer func() {
			if r := recover(); r != nil {
				slog.Warn("tracing: recovered panic ending tool span", "panic", r)
			}
		}()
		status, errMsg, ok := parseEnvelopeStatus(envelope)
		switch {
		case !ok:
			span.SetAttributes(attribute.String("tool.output", truncate(envelope, 2000)))
		case status == "error":
			span.SetStatus(codes.Error, errMsg)
			span.SetAttributes(attribute.String("tool.error", errMsg))
		default:
			span.SetAttributes(attribute.String("tool.output", truncate(envelope, 2000)))
		}
		span.End()
	}
	return spanCtx, end
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Enabled reports whether this Manager performs real tracing.
func (m *Manager) Enabled() bool { return m.enabled }

// Tracer exposes the underlying OTel tracer for packages that need to
// start spans outside the agent/tool/generation contracts above (e.g. the
// orchestrator's round and phase spans).
func (m *Manager) Tracer() oteltrace.Tracer {
	if !m.enabled {
		return otel.Tracer("debatekit-noop")
	}
	return m.tracer
}
