package main

import (
	"testing"

	"github.com/kadirpekel/debatekit/state"
	"github.com/stretchr/testify/assert"
)

func TestCheckRoundNumbering_RejectsOutOfOrderRounds(t *testing.T) {
	d := &state.DebateState{
		Rounds: []state.Round{
			{RoundNumber: 1},
			{RoundNumber: 3},
		},
		CurrentRound: 2,
	}
	violations := checkRoundNumbering(d)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "roundNumber 3, want 2")
}

func TestCheckRoundNumbering_RejectsCurrentRoundOutOfRange(t *testing.T) {
	d := &state.DebateState{Rounds: []state.Round{{RoundNumber: 1}}, CurrentRound: 5}
	violations := checkRoundNumbering(d)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "currentRound 5 out of range")
}

func TestCheckRoundNumbering_AcceptsWellFormedRounds(t *testing.T) {
	d := &state.DebateState{
		Rounds:       []state.Round{{RoundNumber: 1}, {RoundNumber: 2}},
		CurrentRound: 2,
	}
	assert.Empty(t, checkRoundNumbering(d))
}

func TestCheckPerAgentCounts_RejectsDuplicateProposals(t *testing.T) {
	d := &state.DebateState{
		Rounds: []state.Round{
			{
				RoundNumber: 1,
				Contributions: []state.Contribution{
					{AgentID: "a1", Type: state.ContributionProposal},
					{AgentID: "a1", Type: state.ContributionProposal},
				},
			},
		},
	}
	violations := checkPerAgentCounts(d)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "2 proposals")
}

func TestCheckPerAgentCounts_RejectsDuplicateRefinements(t *testing.T) {
	d := &state.DebateState{
		Rounds: []state.Round{
			{
				RoundNumber: 1,
				Contributions: []state.Contribution{
					{AgentID: "a1", Type: state.ContributionRefinement},
					{AgentID: "a1", Type: state.ContributionRefinement},
				},
			},
		},
	}
	violations := checkPerAgentCounts(d)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "2 refinements")
}

func TestCheckCritiqueSelfTargets_FlagsSelfCritique(t *testing.T) {
	d := &state.DebateState{
		Rounds: []state.Round{
			{
				RoundNumber: 1,
				Contributions: []state.Contribution{
					{AgentID: "a1", Type: state.ContributionCritique, Metadata: state.ContributionMetadata{TargetAgent: "a1"}},
				},
			},
		},
	}
	violations := checkCritiqueSelfTargets(d)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "agent a1 critiques itself")
}

func TestCheckCritiqueSelfTargets_AllowsCrossAgentCritique(t *testing.T) {
	d := &state.DebateState{
		Rounds: []state.Round{
			{
				RoundNumber: 1,
				Contributions: []state.Contribution{
					{AgentID: "a1", Type: state.ContributionCritique, Metadata: state.ContributionMetadata{TargetAgent: "a2"}},
				},
			},
		},
	}
	assert.Empty(t, checkCritiqueSelfTargets(d))
}

func TestCheckFinalSolutionInvariant(t *testing.T) {
	completedWithSolution := &state.DebateState{Status: state.StatusCompleted, FinalSolution: &state.FinalSolution{}}
	assert.Empty(t, checkFinalSolutionInvariant(completedWithSolution))

	completedWithoutSolution := &state.DebateState{Status: state.StatusCompleted}
	assert.Len(t, checkFinalSolutionInvariant(completedWithoutSolution), 1)

	activeWithSolution := &state.DebateState{Status: state.StatusRunning, FinalSolution: &state.FinalSolution{}}
	assert.Len(t, checkFinalSolutionInvariant(activeWithSolution), 1)

	activeWithoutSolution := &state.DebateState{Status: state.StatusRunning}
	assert.Empty(t, checkFinalSolutionInvariant(activeWithoutSolution))
}
