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
	"context"
	"fmt"

	"google.golang.org/genai"

	debateerrors "github.com/kadirpekel/debatekit/errors"
)

// GeminiCapability implements Capability against Google's genai SDK
// (google.golang.org/genai), grounded in the example pack's
// internal/llm/google client shape.
type GeminiCapability struct {
	client *genai.Client
}

// NewGeminiCapability builds a Gemini-backed Capability.
func NewGeminiCapability(ctx context.Context, apiKey string) (*GeminiCapability, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.gemini", "NewGeminiCapability", "initializing client", err, false)
	}
	return &GeminiCapability{client: client}, nil
}

// Complete implements Capability.
func (c *GeminiCapability) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, debateerrors.NewValidationError("llms.gemini", "Complete", "model is required", nil)
	}

	contents := make([]*genai.Content, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		contents = append(contents, toGeminiContent(m))
	}
	if req.UserPrompt != "" {
		contents = append(contents, genai.NewContentFromText(req.UserPrompt, genai.RoleUser))
	}

	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(req.Temperature))}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
			})
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, debateerrors.NewProviderError("llms.gemini", "Complete", "request failed", err, true)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, debateerrors.NewProviderError("llms.gemini", "Complete", "no candidates returned", nil, true)
	}

	out := &CompletionResponse{}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        fmt.Sprintf("call_%d", len(out.ToolCalls)),
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			})
		}
	}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func toGeminiContent(m Message) *genai.Content {
	role := genai.RoleUser
	if m.Role == "assistant" {
		role = genai.RoleModel
	}
	if m.Role == "tool" {
		part := genai.NewPartFromFunctionResponse(m.Name, map[string]any{"content": m.Content})
		return genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser)
	}
	return genai.NewContentFromText(m.Content, role)
}
