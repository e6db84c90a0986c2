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

package main

import (
	"fmt"

	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/state"
)

// EvalCmd checks a persisted debate document against the testable
// invariants that a static document can verify on its own (spec §8,
// properties 1-4 and, when --rounds is given, property 6).
type EvalCmd struct {
	DebateID string `arg:"" help:"The debate id to check."`
	Rounds   int    `help:"Expected number of sealed rounds; 0 skips that check."`
}

func (e *EvalCmd) Run(cli *CLI) error {
	store, err := state.NewStore(debateStoreDir)
	if err != nil {
		return err
	}
	d, err := store.Get(e.DebateID)
	if err != nil {
		return err
	}

	var violations []string
	violations = append(violations, checkRoundNumbering(d)...)
	violations = append(violations, checkPerAgentCounts(d)...)
	violations = append(violations, checkCritiqueSelfTargets(d)...)
	violations = append(violations, checkFinalSolutionInvariant(d)...)
	if e.Rounds > 0 && len(d.Rounds) != e.Rounds {
		violations = append(violations, fmt.Sprintf("expected %d sealed rounds, found %d", e.Rounds, len(d.Rounds)))
	}

	if len(violations) == 0 {
		fmt.Printf("debate %s: all checked invariants hold\n", e.DebateID)
		return nil
	}
	for _, v := range violations {
		fmt.Println("FAIL: " + v)
	}
	return debateerrors.NewValidationError("cmd.debate", "eval",
		fmt.Sprintf("%d invariant violation(s) in debate %s", len(violations), e.DebateID), nil)
}

// checkRoundNumbering verifies property 1: rounds[i].roundNumber == i+1 and
// currentRound is in range.
func checkRoundNumbering(d *state.DebateState) []string {
	var out []string
	for i, round := range d.Rounds {
		if round.RoundNumber != i+1 {
			out = append(out, fmt.Sprintf("round at index %d has roundNumber %d, want %d", i, round.RoundNumber, i+1))
		}
	}
	if d.CurrentRound < 0 || d.CurrentRound > len(d.Rounds) {
		out = append(out, fmt.Sprintf("currentRound %d out of range [0, %d]", d.CurrentRound, len(d.Rounds)))
	}
	return out
}

// checkPerAgentCounts verifies property 2: at most one proposal and one
// refinement per agent per round.
func checkPerAgentCounts(d *state.DebateState) []string {
	var out []string
	for _, round := range d.Rounds {
		proposals := map[string]int{}
		refinements := map[string]int{}
		for _, c := range round.Contributions {
			switch c.Type {
			case state.ContributionProposal:
				proposals[c.AgentID]++
			case state.ContributionRefinement:
				refinements[c.AgentID]++
			}
		}
		for agentID, n := range proposals {
			if n > 1 {
				out = append(out, fmt.Sprintf("round %d: agent %s has %d proposals, want <=1", round.RoundNumber, agentID, n))
			}
		}
		for agentID, n := range refinements {
			if n > 1 {
				out = append(out, fmt.Sprintf("round %d: agent %s has %d refinements, want <=1", round.RoundNumber, agentID, n))
			}
		}
	}
	return out
}

// checkCritiqueSelfTargets verifies property 3: no agent critiques itself.
func checkCritiqueSelfTargets(d *state.DebateState) []string {
	var out []string
	for _, round := range d.Rounds {
		for _, c := range round.Contributions {
			if c.Type == state.ContributionCritique && c.AgentID == c.Metadata.TargetAgent {
				out = append(out, fmt.Sprintf("round %d: agent %s critiques itself", round.RoundNumber, c.AgentID))
			}
		}
	}
	return out
}

// checkFinalSolutionInvariant verifies property 4: finalSolution is present
// iff status == completed.
func checkFinalSolutionInvariant(d *state.DebateState) []string {
	hasFinal := d.FinalSolution != nil
	isCompleted := d.Status == state.StatusCompleted
	if hasFinal != isCompleted {
		return []string{fmt.Sprintf("finalSolution present=%v but status=%s", hasFinal, d.Status)}
	}
	return nil
}
