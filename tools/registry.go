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

package tools

import (
	"context"
	"sync"
	"time"

	"github.com/kadirpekel/debatekit/state"
)

// Registry is a per-agent set of Tools, keyed by name. Unlike the
// process-wide provider registry (registry.BaseRegistry), a duplicate
// registration here overwrites the previous tool rather than erroring —
// agents are free to rebind a tool name when composing their own set
// (spec §4.2).
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns an empty tool set.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or replaces the tool under its own Name().
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Definitions returns the ToolDefinition list an agent hands to its
// Capability on each Complete call, in registration order is not
// guaranteed — callers that need stable ordering should sort by name.
func (r *Registry) Definitions() []llmToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llmToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, llmToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return defs
}

// llmToolDefinition mirrors llms.ToolDefinition's shape without importing
// the llms package, avoiding an import cycle (agent imports both tools and
// llms and does the translation).
type llmToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Invoke looks up name and executes it, measuring latency for the caller's
// tracing span and ContributionMetadata. Returns the JSON envelope string
// unconditionally — an unknown tool name is itself encoded as an error
// envelope rather than a Go error, preserving Execute's never-errors
// contract at the registry boundary too.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any, debateContext string, debateState *state.DebateState) (result string, latency time.Duration) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	start := time.Now()
	if !ok {
		return EncodeError("unknown tool: " + name), time.Since(start)
	}
	result = t.Execute(ctx, args, debateContext, debateState)
	return result, time.Since(start)
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}
