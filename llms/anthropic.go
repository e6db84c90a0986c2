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

package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/kadirpekel/debatekit/internal/httpclient"

	debateerrors "github.com/kadirpekel/debatekit/errors"
)

// AnthropicCapability implements Capability against the Anthropic Messages
// API, grounded in the teacher's llms/anthropic.go request/response shape.
type AnthropicCapability struct {
	apiKey     string
	host       string
	maxRetries int
	maxTokens  int
	httpClient *http.Client
}

// NewAnthropicCapability builds an Anthropic-backed Capability.
func NewAnthropicCapability(apiKey, host string, maxRetries, maxTokens int) *AnthropicCapability {
	if host == "" {
		host = "https://api.anthropic.com/v1"
	}
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &AnthropicCapability{apiKey: apiKey, host: host, maxRetries: maxRetries, maxTokens: maxTokens, httpClient: newHTTPClient(0)}
}

type anthropicContentBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result fields, used when echoing a tool-role message back.
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete implements Capability.
func (c *AnthropicCapability) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, debateerrors.NewValidationError("llms.anthropic", "Complete", "model is required", nil)
	}

	messages := make([]anthropicMessage, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		messages = append(messages, toAnthropicMessage(m))
	}
	if req.UserPrompt != "" {
		messages = append(messages, anthropicMessage{Role: "user", Content: []anthropicContentBlock{{Type: "text", Text: req.UserPrompt}}})
	}

	body := anthropicRequest{
		Model:       req.Model,
		System:      req.SystemPrompt,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: req.Temperature,
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, anthropicTool{Name: t.Name, Description: t.Description, InputSchema: t.Parameters})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, debateerrors.NewValidationError("llms.anthropic", "Complete", "encoding request", err)
	}

	respBody, err := doWithBackoff(c.httpClient, func() (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/messages", bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("x-api-key", c.apiKey)
		r.Header.Set("anthropic-version", "2023-06-01")
		return r, nil
	}, httpclient.ParseAnthropicRateLimitHeaders, c.maxRetries)
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.anthropic", "Complete", "request failed", err, true)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, debateerrors.NewProviderError("llms.anthropic", "Complete", "decoding response", err, false)
	}
	if parsed.Error != nil {
		return nil, debateerrors.NewProviderError("llms.anthropic", "Complete", parsed.Error.Message, nil, true)
	}

	resp := &CompletionResponse{
		Usage: &Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
			TotalTokens:  parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}
	for _, block := range parsed.Content {
		switch block.Type {
		case "text":
			resp.Text += block.Text
		case "tool_use":
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{ID: block.ID, Name: block.Name, Arguments: block.Input})
		}
	}
	return resp, nil
}

func toAnthropicMessage(m Message) anthropicMessage {
	if m.Role == "tool" {
		return anthropicMessage{Role: "user", Content: []anthropicContentBlock{{Type: "tool_result", ToolUseID: m.ToolCallID, Content: m.Content}}}
	}
	blocks := []anthropicContentBlock{}
	if m.Content != "" {
		blocks = append(blocks, anthropicContentBlock{Type: "text", Text: m.Content})
	}
	for _, tc := range m.ToolCalls {
		blocks = append(blocks, anthropicContentBlock{Type: "tool_use", ID: tc.ID, Name: tc.Name, Input: tc.Arguments})
	}
	role := m.Role
	if role != "user" && role != "assistant" {
		role = "user"
	}
	return anthropicMessage{Role: role, Content: blocks}
}
