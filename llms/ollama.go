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

	debateerrors "github.com/kadirpekel/debatekit/errors"
)

// OllamaCapability implements Capability against a local Ollama server's
// /api/chat endpoint. Ollama has no rate-limit headers and no API key, so
// it skips the shared HTTP retry machinery the hosted providers use.
type OllamaCapability struct {
	host       string
	httpClient *http.Client
}

// NewOllamaCapability builds an Ollama-backed Capability.
func NewOllamaCapability(host string) *OllamaCapability {
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaCapability{host: host, httpClient: newHTTPClient(0)}
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

// Complete implements Capability. Ollama's chat API has no native tool
// calling in the wire shape used here, so CompletionResponse.ToolCalls is
// always empty for this provider.
func (c *OllamaCapability) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, debateerrors.NewValidationError("llms.ollama", "Complete", "model is required", nil)
	}

	messages := make([]ollamaChatMessage, 0, len(req.Messages)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, ollamaChatMessage{Role: m.Role, Content: m.Content})
	}
	if req.UserPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "user", Content: req.UserPrompt})
	}

	body := ollamaChatRequest{
		Model:    req.Model,
		Messages: messages,
		Options:  map[string]any{"temperature": req.Temperature},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, debateerrors.NewValidationError("llms.ollama", "Complete", "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(raw))
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.ollama", "Complete", "building request", err, false)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.ollama", "Complete", "request failed", err, true)
	}
	defer httpResp.Body.Close()

	var parsed ollamaChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, debateerrors.NewProviderError("llms.ollama", "Complete", "decoding response", err, false)
	}
	if parsed.Error != "" {
		return nil, debateerrors.NewProviderError("llms.ollama", "Complete", parsed.Error, nil, true)
	}

	return &CompletionResponse{
		Text: parsed.Message.Content,
		Usage: &Usage{
			InputTokens:  parsed.PromptEvalCount,
			OutputTokens: parsed.EvalCount,
			TotalTokens:  parsed.PromptEvalCount + parsed.EvalCount,
		},
	}, nil
}
