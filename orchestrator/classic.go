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
	"time"

	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/state"
)

// RunClassic executes the finite round sequence of spec §4.8's Classic
// variant: no clarification suspension, straight into round 1.
func (o *Orchestrator) RunClassic(ctx context.Context, debateID, problem, debateContext string) (*state.DebateState, error) {
	debateState, err := o.Store.Create(debateID, problem, debateContext, time.Now())
	if err != nil {
		return nil, err
	}
	if _, err := o.Store.SetStatus(debateID, state.StatusRunning, time.Now()); err != nil {
		return nil, err
	}

	if err := o.runAllRounds(ctx, debateState, problem); err != nil {
		o.failDebate(debateID, err)
		return nil, err
	}

	return o.synthesizeAndComplete(ctx, debateID, problem, debateContext)
}

// runAllRounds drives rounds 1..Config.Rounds, aborting on a fatal error
// or on a round that both timed out and produced no proposals.
func (o *Orchestrator) runAllRounds(ctx context.Context, debateState *state.DebateState, problem string) error {
	for r := 1; r <= o.Config.Rounds; r++ {
		produced, err := o.runRound(ctx, r, debateState, problem)
		if err != nil {
			if _, ok := err.(*debateerrors.TimeoutError); ok && produced {
				// Round sealed with at least one proposal; proceed.
			} else {
				return err
			}
		}

		refreshed, gErr := o.Store.Get(debateState.ID)
		if gErr != nil {
			return gErr
		}
		*debateState = *refreshed
	}
	return nil
}

func (o *Orchestrator) failDebate(debateID string, cause error) {
	if _, err := o.Store.SetStatus(debateID, state.StatusFailed, time.Now()); err != nil {
		// Best effort: the original cause is what the caller surfaces.
		_ = err
	}
	_ = cause
}

func (o *Orchestrator) synthesizeAndComplete(ctx context.Context, debateID, problem, debateContext string) (*state.DebateState, error) {
	debateState, err := o.Store.Get(debateID)
	if err != nil {
		return nil, err
	}

	safeHook(func() { o.Hooks.OnSynthesisStart() })
	solution, sErr := o.Judge.Synthesize(ctx, debateState.Rounds, problem, debateContext)
	if sErr != nil {
		o.failDebate(debateID, sErr)
		return nil, sErr
	}
	safeHook(func() { o.Hooks.OnSynthesisComplete() })

	return o.Store.SetFinalSolution(debateID, solution, time.Now())
}
