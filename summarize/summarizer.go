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

// Package summarize condenses an agent's accumulated history into a
// shorter form it can carry forward into later rounds instead of the
// full transcript (spec §4.4).
package summarize

import (
	"context"
	"time"

	"github.com/kadirpekel/debatekit/config"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/state"
)

// Summarizer invokes a Capability to condense content, truncates the
// result to the configured length, and records the before/after metrics
// spec §4.4 requires.
type Summarizer struct {
	Capability llms.Capability
	Model      string
	Provider   string
}

// New returns a Summarizer backed by the given capability and model.
func New(capability llms.Capability, provider, model string) *Summarizer {
	return &Summarizer{Capability: capability, Model: model, Provider: provider}
}

// Summarize condenses content according to role and cfg, using
// systemPrompt/summaryPrompt as the instruction pair. Provider errors are
// propagated unchanged, per spec §4.4's "propagates provider errors".
func (s *Summarizer) Summarize(ctx context.Context, content, role string, cfg config.SummarizationConfig, systemPrompt, summaryPrompt string) (state.Summary, error) {
	start := time.Now()

	req := llms.CompletionRequest{
		Model: s.Model,
		Messages: []llms.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: summaryPrompt + "\n\n" + content},
		},
		Temperature: cfg.Temperature,
	}

	resp, err := s.Capability.Complete(ctx, req)
	if err != nil {
		return state.Summary{}, err
	}

	latency := time.Since(start)
	summaryText := resp.Text
	if cfg.MaxLength > 0 && len(summaryText) > cfg.MaxLength {
		summaryText = summaryText[:cfg.MaxLength]
	}

	var tokens *int
	if resp.Usage != nil {
		total := resp.Usage.TotalTokens
		tokens = &total
	}

	return state.Summary{
		AgentRole: role,
		Summary:   summaryText,
		Metadata: state.SummaryMetadata{
			BeforeChars: len(content),
			AfterChars:  len(summaryText),
			Method:      "llm",
			LatencyMs:   latency.Milliseconds(),
			TokensUsed:  tokens,
			Model:       s.Model,
			Temperature: cfg.Temperature,
			Provider:    s.Provider,
			Timestamp:   time.Now(),
		},
	}, nil
}
