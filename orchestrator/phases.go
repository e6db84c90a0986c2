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
	"sort"
	"sync"
	"time"

	"github.com/kadirpekel/debatekit/agent"
	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/state"
)

// proposalResult pairs one agent's Propose/Refine outcome with its error,
// kept together so a per-agent failure doesn't interrupt the rest of the
// phase (spec §4.8 failure policy).
type proposalResult struct {
	agentID string
	role    string
	content string
	meta    state.ContributionMetadata
	err     error
}

// runConcurrent fans work out across n tasks and joins before returning,
// matching the "parallel within a phase, serial across phases" model
// (spec §5). Panics are not recovered: a panicking task takes the whole
// process down with it.
func runConcurrent(n int, task func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			task(i)
		}(i)
	}
	wg.Wait()
}

// isFatal reports whether err should abort the whole debate rather than
// being recorded as a per-agent error (spec §7).
func isFatal(err error) bool {
	switch err.(type) {
	case *debateerrors.ValidationError, *debateerrors.FatalInternal:
		return true
	default:
		return false
	}
}

func (o *Orchestrator) runProposePhase(ctx context.Context, roundNumber int, debateState *state.DebateState, problem string, preparedContext map[string]string) ([]proposalResult, error) {
	agents := o.enabledAgents()
	o.emitPhaseStart(roundNumber, "propose", len(agents))

	results := make([]proposalResult, len(agents))
	runConcurrent(len(agents), func(i int) {
		a := agents[i]
		o.emitAgentStart(a.Name, "propose")
		defer o.emitAgentComplete(a.Name, "propose")

		proposal, err := a.Propose(ctx, problem, preparedContext[a.ID], debateState)
		results[i] = proposalResult{agentID: a.ID, role: string(a.Role), content: proposal.Content, meta: proposal.Metadata, err: err}
	})

	for _, r := range results {
		if r.err != nil && isFatal(r.err) {
			return nil, r.err
		}
	}

	if ctx.Err() != nil {
		return results, ctx.Err()
	}

	for _, r := range results {
		contribution := state.Contribution{
			AgentID: r.agentID, Role: r.role, Type: state.ContributionProposal,
			Content: r.content, Metadata: withErr(r.meta, r.err),
		}
		if _, err := o.Store.AppendContribution(debateState.ID, roundNumber, contribution, now()); err != nil {
			return nil, err
		}
	}

	o.emitPhaseComplete(roundNumber, "propose")
	return results, nil
}

type critiqueResult struct {
	critiquerID string
	role        string
	targetID    string
	content     string
	meta        state.ContributionMetadata
	err         error
}

func (o *Orchestrator) runCritiquePhase(ctx context.Context, roundNumber int, debateState *state.DebateState, proposals []proposalResult, preparedContext map[string]string) ([]critiqueResult, error) {
	agents := o.enabledAgents()

	type pair struct{ critiquer, target int }
	var pairs []pair
	for ci, c := range agents {
		for ti, t := range agents {
			if c.ID == t.ID {
				continue
			}
			pairs = append(pairs, pair{ci, ti})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if agents[pairs[i].critiquer].ID != agents[pairs[j].critiquer].ID {
			return agents[pairs[i].critiquer].ID < agents[pairs[j].critiquer].ID
		}
		return agents[pairs[i].target].ID < agents[pairs[j].target].ID
	})

	o.emitPhaseStart(roundNumber, "critique", len(pairs))

	targetContent := make(map[string]string, len(proposals))
	for _, p := range proposals {
		targetContent[p.agentID] = p.content
	}

	results := make([]critiqueResult, len(pairs))
	runConcurrent(len(pairs), func(i int) {
		critiquer := agents[pairs[i].critiquer]
		target := agents[pairs[i].target]
		o.emitAgentStart(critiquer.Name, "critique")
		defer o.emitAgentComplete(critiquer.Name, "critique")

		critique, err := critiquer.Critique(ctx, target.ID, targetContent[target.ID], preparedContext[critiquer.ID], debateState)
		results[i] = critiqueResult{
			critiquerID: critiquer.ID, role: string(critiquer.Role), targetID: target.ID,
			content: critique.Content, meta: critique.Metadata, err: err,
		}
	})

	for _, r := range results {
		if r.err != nil && isFatal(r.err) {
			return nil, r.err
		}
	}

	if ctx.Err() != nil {
		return results, ctx.Err()
	}

	for _, r := range results {
		contribution := state.Contribution{
			AgentID: r.critiquerID, Role: r.role, Type: state.ContributionCritique,
			Content: r.content, Metadata: withErr(r.meta, r.err),
		}
		if _, err := o.Store.AppendContribution(debateState.ID, roundNumber, contribution, now()); err != nil {
			return nil, err
		}
	}

	o.emitPhaseComplete(roundNumber, "critique")
	return results, nil
}

func (o *Orchestrator) runRefinePhase(ctx context.Context, roundNumber int, debateState *state.DebateState, proposals []proposalResult, critiques []critiqueResult, preparedContext map[string]string) error {
	agents := o.enabledAgents()
	o.emitPhaseStart(roundNumber, "refine", len(agents))

	originalByAgent := make(map[string]string, len(proposals))
	for _, p := range proposals {
		originalByAgent[p.agentID] = p.content
	}
	critiquesByTarget := make(map[string][]string)
	for _, c := range critiques {
		critiquesByTarget[c.targetID] = append(critiquesByTarget[c.targetID], c.content)
	}

	results := make([]proposalResult, len(agents))
	runConcurrent(len(agents), func(i int) {
		a := agents[i]
		o.emitAgentStart(a.Name, "refine")
		defer o.emitAgentComplete(a.Name, "refine")

		refined, err := a.Refine(ctx, originalByAgent[a.ID], critiquesByTarget[a.ID], preparedContext[a.ID], debateState)
		results[i] = proposalResult{agentID: a.ID, role: string(a.Role), content: refined.Content, meta: refined.Metadata, err: err}
	})

	for _, r := range results {
		if r.err != nil && isFatal(r.err) {
			return r.err
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, r := range results {
		contribution := state.Contribution{
			AgentID: r.agentID, Role: r.role, Type: state.ContributionRefinement,
			Content: r.content, Metadata: withErr(r.meta, r.err),
		}
		if _, err := o.Store.AppendContribution(debateState.ID, roundNumber, contribution, now()); err != nil {
			return err
		}
	}

	o.emitPhaseComplete(roundNumber, "refine")
	return nil
}

// runSummarizePhase runs at the top of rounds > 1: each agent whose
// formatted context warrants it (and has summarization enabled) produces
// a summary concurrently, stored under the round it is attached to
// (resolved Open Question: the beginning round, i.e. roundNumber).
func (o *Orchestrator) runSummarizePhase(ctx context.Context, roundNumber int, debateState *state.DebateState) (map[string]string, error) {
	agents := o.enabledAgents()
	preparedContext := make(map[string]string, len(agents))

	type summarizeOutcome struct {
		agentID string
		text    string
		summary *state.Summary
		err     error
	}
	outcomes := make([]summarizeOutcome, len(agents))

	runConcurrent(len(agents), func(i int) {
		a := agents[i]
		o.emitSummarizationStart(a.Name)
		text, summary, err := a.PrepareContext(ctx, debateState, roundNumber)
		outcomes[i] = summarizeOutcome{agentID: a.ID, text: text, summary: summary, err: err}
	})

	for i, o2 := range outcomes {
		if o2.err != nil && isFatal(o2.err) {
			return nil, o2.err
		}
		preparedContext[o2.agentID] = o2.text
		if o2.summary != nil {
			if _, err := o.Store.SetSummary(debateState.ID, roundNumber, o2.agentID, *o2.summary); err != nil {
				return nil, err
			}
			before, after := o2.summary.Metadata.BeforeChars, o2.summary.Metadata.AfterChars
			o.emitSummarizationComplete(agents[i].Name, before, after)
		} else {
			o.emitSummarizationComplete(agents[i].Name, 0, 0)
		}
	}

	return preparedContext, nil
}

func (o *Orchestrator) enabledAgents() []*agent.Agent {
	var out []*agent.Agent
	for _, a := range o.Agents {
		out = append(out, a)
	}
	return out
}

func withErr(meta state.ContributionMetadata, err error) state.ContributionMetadata {
	if err != nil && meta.Error == "" {
		meta.Error = err.Error()
	}
	return meta
}

func now() time.Time { return time.Now() }
