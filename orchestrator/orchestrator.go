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
	"sync"
	"time"

	"github.com/kadirpekel/debatekit/agent"
	"github.com/kadirpekel/debatekit/config"
	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/state"
	"github.com/kadirpekel/debatekit/tracing"
)

// Orchestrator holds everything one debate run needs: the agent roster,
// the judge, the state store, configuration, and hooks. Both the Classic
// and state-machine entry points (classic.go, statemachine.go) share it.
type Orchestrator struct {
	Store  *state.Store
	Agents []*agent.Agent
	Judge  *agent.Judge
	Config config.DebateConfig
	Hooks  Hooks
	Tracer *tracing.Manager
}

// New returns an Orchestrator. A nil hooks argument is replaced with
// NopHooks; a nil tracer with a disabled tracing.Manager.
func New(store *state.Store, agents []*agent.Agent, judge *agent.Judge, cfg config.DebateConfig, hooks Hooks, tracer *tracing.Manager) *Orchestrator {
	if hooks == nil {
		hooks = NopHooks{}
	}
	if tracer == nil {
		tracer = tracing.NewManager(nil)
	}
	return &Orchestrator{Store: store, Agents: agents, Judge: judge, Config: cfg, Hooks: hooks, Tracer: tracer}
}

func (o *Orchestrator) emitPhaseStart(round int, phase string, expected int) {
	safeHook(func() { o.Hooks.OnPhaseStart(round, phase, expected) })
}
func (o *Orchestrator) emitPhaseComplete(round int, phase string) {
	safeHook(func() { o.Hooks.OnPhaseComplete(round, phase) })
}
func (o *Orchestrator) emitAgentStart(name, activity string) {
	safeHook(func() { o.Hooks.OnAgentStart(name, activity) })
}
func (o *Orchestrator) emitAgentComplete(name, activity string) {
	safeHook(func() { o.Hooks.OnAgentComplete(name, activity) })
}
func (o *Orchestrator) emitSummarizationStart(name string) {
	safeHook(func() { o.Hooks.OnSummarizationStart(name) })
}
func (o *Orchestrator) emitSummarizationComplete(name string, before, after int) {
	safeHook(func() { o.Hooks.OnSummarizationComplete(name, before, after) })
}

// runRound executes propose → (critique, refine), preceded by a
// summarization pass when roundNumber > 1, bounded by
// Config.TimeoutPerRound. Contributions are written to the store as they
// are produced; the return value reports whether the round produced at
// least one proposal — needed by callers to decide whether a timeout
// still allows the debate to proceed.
func (o *Orchestrator) runRound(parent context.Context, roundNumber int, debateState *state.DebateState, problem string) (proposalsProduced bool, err error) {
	safeHook(func() { o.Hooks.OnRoundStart(roundNumber, o.Config.Rounds) })

	ctx, cancel := context.WithTimeout(parent, o.Config.TimeoutPerRound)
	defer cancel()

	preparedContext := make(map[string]string, len(o.Agents))
	if roundNumber > 1 {
		pc, sErr := o.runSummarizePhase(ctx, roundNumber, debateState)
		if sErr != nil {
			if isFatal(sErr) {
				return false, sErr
			}
		} else {
			preparedContext = pc
		}
	}

	done := make(chan struct{})
	var mu sync.Mutex
	var proposals []proposalResult
	var runErr error

	setProposals := func(p []proposalResult) {
		mu.Lock()
		proposals = p
		mu.Unlock()
	}
	getProposals := func() []proposalResult {
		mu.Lock()
		defer mu.Unlock()
		return proposals
	}

	go func() {
		defer close(done)

		props, pErr := o.runProposePhase(ctx, roundNumber, debateState, problem, preparedContext)
		if pErr != nil {
			runErr = pErr
			return
		}
		setProposals(props)

		if anyOK(props) {
			critiques, cErr := o.runCritiquePhase(ctx, roundNumber, debateState, props, preparedContext)
			if cErr != nil {
				runErr = cErr
				return
			}
			if rErr := o.runRefinePhase(ctx, roundNumber, debateState, props, critiques, preparedContext); rErr != nil {
				runErr = rErr
				return
			}
		}
	}()

	select {
	case <-done:
		if runErr != nil {
			return anyOK(getProposals()), runErr
		}
		if _, err := o.Store.SealRound(debateState.ID, roundNumber, time.Now()); err != nil {
			return anyOK(getProposals()), err
		}
		return anyOK(getProposals()), nil
	case <-ctx.Done():
		// Timeout: in-flight calls are allowed to finish writing what they
		// already have, but nothing further is appended for this round —
		// the phase functions above stop appending once ctx is done
		// because the capability calls they depend on return ctx.Err().
		produced := anyOK(getProposals())
		if _, sealErr := o.Store.SealRound(debateState.ID, roundNumber, time.Now()); sealErr != nil {
			return produced, sealErr
		}
		return produced, debateerrors.NewTimeoutError("orchestrator", "run_round", "round timeout elapsed", ctx.Err())
	}
}

func anyOK(results []proposalResult) bool {
	for _, r := range results {
		if r.err == nil {
			return true
		}
	}
	return false
}
