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

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/state"
)

// Judge extends Agent with synthesis: collapsing a debate's rounds into a
// single FinalSolution (spec §4.6).
type Judge struct {
	*Agent
}

type synthesisPayload struct {
	Description                  string   `json:"description"`
	Tradeoffs                    []string `json:"tradeoffs"`
	Recommendations               []string `json:"recommendations"`
	Confidence                    int      `json:"confidence"`
	UnfulfilledMajorRequirements  []string `json:"unfulfilledMajorRequirements"`
}

// Synthesize invokes the judge once over the full round history and
// problem statement, returning a FinalSolution. The judge is asked to
// answer with a JSON object, which is parsed from the first '{' to the
// last '}' of the reply; a response that fails to parse falls back to a
// description holding the raw text so a malformed model reply never
// aborts the debate.
func (j *Judge) Synthesize(ctx context.Context, rounds []state.Round, problem, debateContext string) (state.FinalSolution, error) {
	ctx = j.startSpan(ctx, "synthesize")
	defer func() { j.endSpan(nil) }()

	transcript := formatRoundsForJudge(rounds)

	req := llms.CompletionRequest{
		Model:       j.Model,
		Temperature: j.Temperature,
		Messages: []llms.Message{
			{Role: "system", Content: j.Prompts.System.Text},
			{Role: "user", Content: fmt.Sprintf(
				"Problem:\n%s\n\nContext:\n%s\n\nDebate transcript:\n%s\n\n"+
					"Respond with a JSON object: {\"description\":string,\"tradeoffs\":[string],"+
					"\"recommendations\":[string],\"confidence\":0-100,\"unfulfilledMajorRequirements\":[string]}.",
				problem, debateContext, transcript)},
		},
	}

	genCtx, endGen := j.Tracer.StartGeneration(ctx, j.ID, j.Model)
	resp, err := j.callWithRetry(genCtx, req)
	if err != nil {
		endGen("", 0, err)
		j.endSpan(err)
		return state.FinalSolution{}, err
	}
	endGen(resp.Text, usageTokens(resp), nil)

	payload, ok := parseSynthesis(resp.Text)
	if !ok {
		payload = synthesisPayload{Description: resp.Text, Confidence: 50}
	}
	if payload.Confidence < 0 {
		payload.Confidence = 0
	}
	if payload.Confidence > 100 {
		payload.Confidence = 100
	}

	return state.FinalSolution{
		Description:                  payload.Description,
		Tradeoffs:                    payload.Tradeoffs,
		Recommendations:               payload.Recommendations,
		Confidence:                    payload.Confidence,
		SynthesizedBy:                 j.ID,
		UnfulfilledMajorRequirements:  payload.UnfulfilledMajorRequirements,
	}, nil
}

func parseSynthesis(text string) (synthesisPayload, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return synthesisPayload{}, false
	}
	var payload synthesisPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return synthesisPayload{}, false
	}
	return payload, true
}

func formatRoundsForJudge(rounds []state.Round) string {
	var b strings.Builder
	for _, round := range rounds {
		fmt.Fprintf(&b, "\n--- Round %d ---\n", round.RoundNumber)
		for _, c := range round.Contributions {
			fmt.Fprintf(&b, "[%s/%s] (%s):\n%s\n\n", c.AgentID, c.Role, c.Type, c.Content)
		}
	}
	return b.String()
}
