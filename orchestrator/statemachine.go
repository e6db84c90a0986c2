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

package orchestrator

import (
	"context"
	"fmt"
	"time"

	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/state"
)

const suspendReasonWaitingForInput = "WAITING_FOR_INPUT"

// RunDebate implements spec §4.8's state-machine variant. When
// Config.InteractiveClarifications is set, it suspends before round 1 to
// collect clarifying answers; otherwise it behaves like RunClassic but
// returns an ExecutionResult.
func (o *Orchestrator) RunDebate(ctx context.Context, problem, debateContext string, debateID string) (*state.ExecutionResult, error) {
	debateState, err := o.Store.Create(debateID, problem, debateContext, time.Now())
	if err != nil {
		return nil, err
	}

	if o.Config.InteractiveClarifications {
		return o.suspendForClarifications(ctx, debateState, problem)
	}

	if _, err := o.Store.SetStatus(debateID, state.StatusRunning, time.Now()); err != nil {
		return nil, err
	}
	return o.runToCompletion(ctx, debateID, problem, debateContext)
}

// Resume answers a suspended debate's clarifying questions and runs it to
// completion. Resuming a non-suspended debate is an error (spec §4.8);
// the answer set must match the exact question id set emitted at suspend
// time.
func (o *Orchestrator) Resume(ctx context.Context, debateID string, answers map[string]string) (*state.ExecutionResult, error) {
	debateState, err := o.Store.Get(debateID)
	if err != nil {
		return nil, err
	}
	if debateState.Status != state.StatusSuspended {
		return nil, debateerrors.NewValidationError("orchestrator", "resume",
			fmt.Sprintf("debate %s is not suspended (status=%s)", debateID, debateState.Status), nil)
	}

	expected := map[string]bool{}
	for _, ac := range debateState.Clarifications {
		for _, item := range ac.Items {
			expected[item.ID] = true
		}
	}
	if len(expected) != len(answers) {
		return nil, debateerrors.NewValidationError("orchestrator", "resume",
			"answer set does not match the question id set emitted at suspend time", nil)
	}
	for id := range answers {
		if !expected[id] {
			return nil, debateerrors.NewValidationError("orchestrator", "resume",
				fmt.Sprintf("unknown question id %q in answers", id), nil)
		}
	}

	for i := range debateState.Clarifications {
		for j := range debateState.Clarifications[i].Items {
			item := &debateState.Clarifications[i].Items[j]
			if answer, ok := answers[item.ID]; ok {
				a := answer
				item.Answer = &a
			}
		}
	}
	if _, err := o.Store.SetClarifications(debateID, debateState.Clarifications, time.Now()); err != nil {
		return nil, err
	}

	if _, err := o.Store.Revive(debateID, time.Now()); err != nil {
		return nil, err
	}

	return o.runToCompletion(ctx, debateID, debateState.Problem, debateState.Context)
}

func (o *Orchestrator) suspendForClarifications(ctx context.Context, debateState *state.DebateState, problem string) (*state.ExecutionResult, error) {
	var all []state.AgentClarifications
	var questions []state.ClarificationItem
	nextID := 1

	collect := func(id, name, role string, questionTexts []string) {
		max := o.Config.ClarificationsMaxPerAgent
		if max > 0 && len(questionTexts) > max {
			questionTexts = questionTexts[:max]
		}
		var items []state.ClarificationItem
		for _, q := range questionTexts {
			item := state.ClarificationItem{ID: fmt.Sprintf("q%d", nextID), Question: q}
			items = append(items, item)
			questions = append(questions, item)
			nextID++
		}
		if len(items) > 0 {
			all = append(all, state.AgentClarifications{AgentID: id, AgentName: name, Role: role, Items: items})
		}
	}

	for _, a := range o.Agents {
		result, err := a.AskClarifyingQuestions(ctx, problem)
		if err != nil {
			return nil, err
		}
		collect(a.ID, a.Name, string(a.Role), result.Questions)
	}
	judgeResult, err := o.Judge.AskClarifyingQuestions(ctx, problem)
	if err != nil {
		return nil, err
	}
	collect(o.Judge.ID, o.Judge.Name, string(o.Judge.Role), judgeResult.Questions)

	if _, err := o.Store.SetClarifications(debateState.ID, all, time.Now()); err != nil {
		return nil, err
	}
	updated, err := o.Store.SetStatus(debateState.ID, state.StatusSuspended, time.Now())
	if err != nil {
		return nil, err
	}

	return &state.ExecutionResult{
		Status:        state.StatusSuspended,
		SuspendReason: suspendReasonWaitingForInput,
		SuspendPayload: &state.SuspendPayload{
			DebateID:  debateState.ID,
			Questions: questions,
		},
		Result: updated,
	}, nil
}

func (o *Orchestrator) runToCompletion(ctx context.Context, debateID, problem, debateContext string) (*state.ExecutionResult, error) {
	debateState, err := o.Store.Get(debateID)
	if err != nil {
		return nil, err
	}

	if err := o.runAllRounds(ctx, debateState, problem); err != nil {
		o.failDebate(debateID, err)
		return &state.ExecutionResult{Status: state.StatusFailed, Err: err}, err
	}

	final, err := o.synthesizeAndComplete(ctx, debateID, problem, debateContext)
	if err != nil {
		return &state.ExecutionResult{Status: state.StatusFailed, Err: err}, err
	}

	return &state.ExecutionResult{Status: state.StatusCompleted, Result: final}, nil
}
