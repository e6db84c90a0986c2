package contextfmt

import (
	"testing"

	"github.com/kadirpekel/debatekit/state"
	"github.com/stretchr/testify/assert"
)

func TestPrepare_EmptyDebateReturnsEmptyString(t *testing.T) {
	assert.Empty(t, Prepare(nil, "a1", true))
	assert.Empty(t, Prepare(&state.DebateState{}, "a1", true))
}

func TestPrepare_PrefersMostRecentOwnSummary(t *testing.T) {
	st := &state.DebateState{
		Rounds: []state.Round{
			{RoundNumber: 1, Summaries: map[string]state.Summary{"a1": {Summary: "old summary"}}},
			{RoundNumber: 2, Summaries: map[string]state.Summary{"a1": {Summary: "fresh summary"}}},
		},
	}

	out := Prepare(st, "a1", true)
	assert.Contains(t, out, "fresh summary")
	assert.NotContains(t, out, "old summary")
	assert.Contains(t, out, "round 2")
}

func TestPrepare_FallsBackToFullHistoryWhenEnabled(t *testing.T) {
	st := &state.DebateState{
		Rounds: []state.Round{
			{RoundNumber: 1, Contributions: []state.Contribution{
				{AgentID: "a2", Role: "skeptic", Type: state.ContributionProposal, Content: "use a queue"},
			}},
		},
	}

	out := Prepare(st, "a1", true)
	assert.Contains(t, out, "Previous Debate:")
	assert.Contains(t, out, "use a queue")
}

func TestPrepare_NoSummaryAndHistoryDisabledReturnsEmpty(t *testing.T) {
	st := &state.DebateState{
		Rounds: []state.Round{
			{RoundNumber: 1, Contributions: []state.Contribution{
				{AgentID: "a2", Content: "use a queue"},
			}},
		},
	}

	assert.Empty(t, Prepare(st, "a1", false))
}

func TestFormatFullHistory_OrdersRoundsAndContributions(t *testing.T) {
	st := &state.DebateState{
		Rounds: []state.Round{
			{RoundNumber: 1, Contributions: []state.Contribution{{AgentID: "a1", Type: state.ContributionProposal, Content: "first"}}},
			{RoundNumber: 2, Contributions: []state.Contribution{{AgentID: "a1", Type: state.ContributionRefinement, Content: "second"}}},
		},
	}

	out := FormatFullHistory(st)
	firstIdx := indexOf(out, "first")
	secondIdx := indexOf(out, "second")
	assert.Greater(t, secondIdx, firstIdx)
}

func TestPrependContext_SkipsJoinWhenContextEmpty(t *testing.T) {
	assert.Equal(t, "solve this", PrependContext("solve this", "   "))
	assert.Equal(t, "ctx\n\nsolve this", PrependContext("solve this", "ctx"))
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
