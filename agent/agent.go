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

// Package agent implements the debate's core actor (spec §4.5): propose,
// critique, refine, context preparation, clarifying questions, and the
// tool-calling inner loop shared by all three conversational operations.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kadirpekel/debatekit/config"
	"github.com/kadirpekel/debatekit/contextfmt"
	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/prompt"
	"github.com/kadirpekel/debatekit/state"
	"github.com/kadirpekel/debatekit/summarize"
	"github.com/kadirpekel/debatekit/tools"
	"github.com/kadirpekel/debatekit/tracing"
)

// Prompts bundles an agent's resolved system, summary, and clarification
// prompt text, plus the role-specific user-prompt builder.
type Prompts struct {
	System        prompt.Resolved
	Summary       prompt.Resolved
	Clarification prompt.Resolved
}

// RolePrompts builds the role-specific user-turn text for each operation.
// Kept as an interface so the built-in per-role prompt bank (defined
// alongside the Agent constructor) can be swapped in tests.
type RolePrompts interface {
	ProposeUser(problem string) string
	CritiqueUser(targetAgentID, targetContent string) string
	RefineUser(original string, critiques []string) string
	SummaryUser(content string) string
	ClarificationUser(problem string) string
}

// Agent is one debate participant: a role, a model-backed capability, a
// private tool set, and the prompts that shape its turns.
type Agent struct {
	ID       string
	Name     string
	Role     config.Role
	Provider string
	Model    string

	Capability llms.Capability
	Tools      *tools.Registry
	Prompts    Prompts
	RoleText   RolePrompts

	Temperature float64

	Summarization      config.SummarizationConfig
	ToolCallLimit       int
	IncludeFullHistory  bool

	// Tracer must never be nil; use tracing.NewManager(nil) for a disabled
	// manager so every hook call below is a safe no-op.
	Tracer *tracing.Manager
}

// Proposal is the output of propose/refine.
type Proposal struct {
	Content  string
	Metadata state.ContributionMetadata
}

// Critique is the output of critique.
type Critique struct {
	Content  string
	Metadata state.ContributionMetadata
}

// ClarificationResult is the output of askClarifyingQuestions.
type ClarificationResult struct {
	Questions []string
}

// Propose produces this agent's first-round answer to problem.
func (a *Agent) Propose(ctx context.Context, problem, preparedContext string, debateState *state.DebateState) (Proposal, error) {
	ctx = a.startSpan(ctx, "propose")
	defer func() { a.endSpan(nil) }()

	userText := contextfmt.PrependContext(a.RoleText.ProposeUser(problem), preparedContext)
	content, meta, err := a.runInnerLoop(ctx, userText, debateState)
	if err != nil {
		a.endSpan(err)
		return Proposal{}, err
	}
	return Proposal{Content: content, Metadata: meta}, nil
}

// Critique produces this agent's critique of targetContent, authored by
// targetAgentID.
func (a *Agent) Critique(ctx context.Context, targetAgentID, targetContent, preparedContext string, debateState *state.DebateState) (Critique, error) {
	ctx = a.startSpan(ctx, "critique")
	defer func() { a.endSpan(nil) }()

	userText := contextfmt.PrependContext(a.RoleText.CritiqueUser(targetAgentID, targetContent), preparedContext)
	content, meta, err := a.runInnerLoop(ctx, userText, debateState)
	meta.TargetAgent = targetAgentID
	if err != nil {
		a.endSpan(err)
		return Critique{}, err
	}
	return Critique{Content: content, Metadata: meta}, nil
}

// Refine produces this agent's revised proposal given its own prior
// proposal and the critiques aimed at it.
func (a *Agent) Refine(ctx context.Context, original string, critiques []string, preparedContext string, debateState *state.DebateState) (Proposal, error) {
	ctx = a.startSpan(ctx, "refine")
	defer func() { a.endSpan(nil) }()

	userText := contextfmt.PrependContext(a.RoleText.RefineUser(original, critiques), preparedContext)
	content, meta, err := a.runInnerLoop(ctx, userText, debateState)
	if err != nil {
		a.endSpan(err)
		return Proposal{}, err
	}
	return Proposal{Content: content, Metadata: meta}, nil
}

// ShouldSummarize reports whether the formatted context is long enough to
// warrant summarization, independent of whether summarization is enabled.
func (a *Agent) ShouldSummarize(formattedContext string) bool {
	return len(formattedContext) > a.Summarization.Threshold
}

// PrepareContext implements spec §4.5's context preparation: summarize
// when warranted and enabled, otherwise defer to the formatter's
// summary-then-full-history preference order.
func (a *Agent) PrepareContext(ctx context.Context, debateState *state.DebateState, roundNumber int) (preparedContext string, summary *state.Summary, err error) {
	full := contextfmt.FormatFullHistory(debateState)

	if a.Summarization.Enabled && a.ShouldSummarize(full) {
		summarizer := summarize.New(a.Capability, a.Provider, a.Model)
		s, sErr := summarizer.Summarize(ctx, full, string(a.Role), a.Summarization, a.Prompts.System.Text, a.Prompts.Summary.Text)
		if sErr != nil {
			return "", nil, sErr
		}
		return s.Summary, &s, nil
	}

	return contextfmt.Prepare(debateState, a.ID, a.IncludeFullHistory), nil, nil
}

// AskClarifyingQuestions returns a short list of concise question texts
// from the agent's perspective (spec §4.5). Ids and per-agent caps are the
// orchestrator's responsibility.
func (a *Agent) AskClarifyingQuestions(ctx context.Context, problem string) (ClarificationResult, error) {
	ctx = a.startSpan(ctx, "ask_clarifying_questions")
	defer func() { a.endSpan(nil) }()

	req := llms.CompletionRequest{
		Model:       a.Model,
		Temperature: a.Temperature,
		Messages: []llms.Message{
			{Role: "system", Content: a.Prompts.Clarification.Text},
			{Role: "user", Content: a.RoleText.ClarificationUser(problem)},
		},
	}

	genCtx, endGen := a.Tracer.StartGeneration(ctx, a.ID, a.Model)
	resp, err := a.Capability.Complete(genCtx, req)
	if err != nil {
		endGen("", 0, err)
		a.endSpan(err)
		return ClarificationResult{}, err
	}
	endGen(resp.Text, usageTokens(resp), nil)

	questions := splitQuestions(resp.Text)
	return ClarificationResult{Questions: questions}, nil
}

func splitQuestions(text string) []string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. )")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func usageTokens(resp *llms.CompletionResponse) int {
	if resp == nil || resp.Usage == nil {
		return 0
	}
	return resp.Usage.TotalTokens
}

func (a *Agent) startSpan(ctx context.Context, method string) context.Context {
	if a.Tracer == nil {
		return ctx
	}
	return a.Tracer.StartAgentMethod(ctx, a.ID, method)
}

func (a *Agent) endSpan(err error) {
	if a.Tracer == nil {
		return
	}
	a.Tracer.EndAgentMethod(a.ID, err)
}

// runInnerLoop implements spec §4.5's tool-calling inner loop shared by
// propose/critique/refine: build messages, call the capability, execute
// any pending tool calls synchronously and loop, until a textual answer
// with no pending tool calls arrives or toolCallLimit is hit.
func (a *Agent) runInnerLoop(ctx context.Context, userText string, debateState *state.DebateState) (string, state.ContributionMetadata, error) {
	start := time.Now()

	messages := []llms.Message{
		{Role: "system", Content: a.Prompts.System.Text},
		{Role: "user", Content: userText},
	}

	defs := a.toolDefinitions()
	var toolCalls []state.ToolCallInfo
	var lastResp *llms.CompletionResponse

	limit := a.ToolCallLimit
	if limit <= 0 {
		limit = 8
	}

	// toolTurns counts turns that actually executed tool calls. Checked
	// before issuing a request so a turn that would exceed the limit never
	// makes a normal capability call at all — it goes straight to the
	// synthetic-error final attempt, keeping the per-agent-turn call count
	// at toolCallLimit+1 (spec §8.8's property 8).
	toolTurns := 0

	for {
		if toolTurns >= limit {
			messages = append(messages, llms.Message{
				Role:    "tool",
				Content: tools.EncodeError(fmt.Sprintf("tool call limit of %d exceeded", limit)),
			})
			req := llms.CompletionRequest{
				Model:       a.Model,
				Temperature: a.Temperature,
				Messages:    messages,
				Tools:       defs,
			}
			genCtx, endGen := a.Tracer.StartGeneration(ctx, a.ID, a.Model)
			final, ferr := a.callWithRetry(genCtx, req)
			if ferr != nil {
				endGen("", 0, ferr)
				return "", state.ContributionMetadata{
					LatencyMs: time.Since(start).Milliseconds(),
					Model:     a.Model,
					Error:     ferr.Error(),
					ToolCalls: toolCalls,
				}, ferr
			}
			endGen(final.Text, usageTokens(final), nil)
			lastResp = final
			break
		}

		req := llms.CompletionRequest{
			Model:       a.Model,
			Temperature: a.Temperature,
			Messages:    messages,
			Tools:       defs,
		}

		genCtx, endGen := a.Tracer.StartGeneration(ctx, a.ID, a.Model)
		resp, err := a.callWithRetry(genCtx, req)
		if err != nil {
			endGen("", 0, err)
			return "", state.ContributionMetadata{
				LatencyMs: time.Since(start).Milliseconds(),
				Model:     a.Model,
				Error:     err.Error(),
				ToolCalls: toolCalls,
			}, err
		}
		endGen(resp.Text, usageTokens(resp), nil)
		lastResp = resp

		if !resp.HasPendingToolCalls() {
			break
		}

		assistantMsg := llms.Message{Role: "assistant", Content: resp.Text, ToolCalls: resp.ToolCalls}
		messages = append(messages, assistantMsg)

		for _, call := range resp.ToolCalls {
			toolCtx, endTool := a.Tracer.StartTool(ctx, a.ID, call.Name)
			envelope, _ := a.Tools.Invoke(toolCtx, call.Name, call.Arguments, "", debateState)
			endTool(envelope)

			argsJSON, _ := json.Marshal(call.Arguments)
			toolCalls = append(toolCalls, state.ToolCallInfo{
				Name:           call.Name,
				Args:           string(argsJSON),
				ResultEnvelope: envelope,
			})
			messages = append(messages, llms.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    envelope,
			})
		}

		toolTurns++
	}

	meta := state.ContributionMetadata{
		LatencyMs: time.Since(start).Milliseconds(),
		Model:     a.Model,
		ToolCalls: toolCalls,
	}
	if lastResp != nil {
		meta.TokensUsed = optionalTokens(lastResp)
	}
	text := ""
	if lastResp != nil {
		text = lastResp.Text
	}
	return text, meta, nil
}

// callWithRetry applies the agent-level single-retry-per-turn policy for
// transient ProviderErrors (spec §7), independent of and above any
// HTTP-layer retry/backoff the capability itself performs.
func (a *Agent) callWithRetry(ctx context.Context, req llms.CompletionRequest) (*llms.CompletionResponse, error) {
	resp, err := a.Capability.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	var provErr *debateerrors.ProviderError
	if pe, ok := err.(*debateerrors.ProviderError); ok {
		provErr = pe
	}
	if provErr == nil || !provErr.Retriable {
		return nil, err
	}

	return a.Capability.Complete(ctx, req)
}

func optionalTokens(resp *llms.CompletionResponse) *int {
	if resp.Usage == nil {
		return nil
	}
	total := resp.Usage.TotalTokens
	return &total
}

func (a *Agent) toolDefinitions() []llms.ToolDefinition {
	if a.Tools == nil {
		return nil
	}
	raw := a.Tools.Definitions()
	defs := make([]llms.ToolDefinition, 0, len(raw))
	for _, d := range raw {
		defs = append(defs, llms.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
