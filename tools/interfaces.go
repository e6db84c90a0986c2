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

// Package tools implements the per-agent Tool Registry (spec §4.2): a set
// of named, synchronous tools whose results travel back to the agent as a
// JSON envelope string, never as a Go error.
package tools

import (
	"context"
	"encoding/json"

	"github.com/kadirpekel/debatekit/state"
)

// Tool is one synchronous, LLM-free capability an agent may invoke.
// Execute never returns a Go error: failures are encoded into the result
// envelope itself (spec §4.2, §6.5).
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any
	Execute(ctx context.Context, args map[string]any, debateContext string, debateState *state.DebateState) string
}

type envelope struct {
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// EncodeSuccess builds the `{"status":"success","result":...}` envelope.
func EncodeSuccess(result any) string {
	raw, err := json.Marshal(envelope{Status: "success", Result: result})
	if err != nil {
		return EncodeError("encoding result: " + err.Error())
	}
	return string(raw)
}

// EncodeError builds the `{"status":"error","error":...}` envelope.
func EncodeError(message string) string {
	raw, err := json.Marshal(envelope{Status: "error", Error: message})
	if err != nil {
		// json.Marshal on a struct of strings cannot fail; this is
		// unreachable but keeps the function total.
		return `{"status":"error","error":"internal encoding failure"}`
	}
	return string(raw)
}
