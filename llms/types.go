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

// Package llms defines the narrow LLM Capability abstraction the rest of
// the debate engine depends on, plus concrete provider adapters.
package llms

// Message is one turn in a capability conversation.
type Message struct {
	Role       string     `json:"role"` // "system", "user", "assistant", "tool"
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolDefinition is a tool schema offered to the capability for a turn.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolCall is a tool invocation request surfaced by the capability.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	RawArgs   string         `json:"raw_args,omitempty"`
}

// Usage reports token consumption for one capability call.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// CompletionRequest is the sole Capability input (spec §4.1).
type CompletionRequest struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	UserPrompt   string
	Messages     []Message
	Tools        []ToolDefinition
}

// CompletionResponse is the sole Capability output (spec §4.1).
type CompletionResponse struct {
	Text      string
	ToolCalls []ToolCall
	Usage     *Usage
}

// HasPendingToolCalls reports whether the response requires the caller to
// satisfy tool calls before a final textual answer is accepted.
func (r *CompletionResponse) HasPendingToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}
