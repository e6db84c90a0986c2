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

// OpenAICapability implements Capability against OpenAI's chat-completions
// wire format, grounded in the teacher's llms/openai.go request shape.
type OpenAICapability struct {
	apiKey     string
	host       string
	maxRetries int
	httpClient *http.Client
}

// NewOpenAICapability builds an OpenAI-backed Capability. host defaults to
// the public API base when empty, to support OpenAI-compatible gateways.
func NewOpenAICapability(apiKey, host string, maxRetries int) *OpenAICapability {
	if host == "" {
		host = "https://api.openai.com/v1"
	}
	return &OpenAICapability{apiKey: apiKey, host: host, maxRetries: maxRetries, httpClient: newHTTPClient(0)}
}

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content,omitempty"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openAIToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openAITool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters,omitempty"`
	} `json:"function"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	Tools       []openAITool    `json:"tools,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete implements Capability.
func (c *OpenAICapability) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, debateerrors.NewValidationError("llms.openai", "Complete", "model is required", nil)
	}

	messages := make([]openAIMessage, 0, len(req.Messages)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, toOpenAIMessage(m))
	}
	if req.UserPrompt != "" {
		messages = append(messages, openAIMessage{Role: "user", Content: req.UserPrompt})
	}

	body := openAIRequest{Model: req.Model, Messages: messages, Temperature: req.Temperature}
	for _, t := range req.Tools {
		ot := openAITool{Type: "function"}
		ot.Function.Name = t.Name
		ot.Function.Description = t.Description
		ot.Function.Parameters = t.Parameters
		body.Tools = append(body.Tools, ot)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, debateerrors.NewValidationError("llms.openai", "Complete", "encoding request", err)
	}

	respBody, err := doWithBackoff(c.httpClient, func() (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/chat/completions", bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
		return r, nil
	}, httpclient.ParseOpenAIRateLimitHeaders, c.maxRetries)
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.openai", "Complete", "request failed", err, true)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, debateerrors.NewProviderError("llms.openai", "Complete", "decoding response", err, false)
	}
	if parsed.Error != nil {
		return nil, debateerrors.NewProviderError("llms.openai", "Complete", parsed.Error.Message, nil, true)
	}
	if len(parsed.Choices) == 0 {
		return nil, debateerrors.NewProviderError("llms.openai", "Complete", "no choices returned", nil, true)
	}

	choice := parsed.Choices[0].Message
	resp := &CompletionResponse{
		Text: choice.Content,
		Usage: &Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
	}
	for _, tc := range choice.ToolCalls {
		var args map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
			RawArgs:   tc.Function.Arguments,
		})
	}
	return resp, nil
}

func toOpenAIMessage(m Message) openAIMessage {
	om := openAIMessage{Role: m.Role, Content: m.Content, ToolCallID: m.ToolCallID}
	for _, tc := range m.ToolCalls {
		otc := openAIToolCall{ID: tc.ID, Type: "function"}
		otc.Function.Name = tc.Name
		otc.Function.Arguments = tc.RawArgs
		om.ToolCalls = append(om.ToolCalls, otc)
	}
	return om
}
