package report

import (
	"testing"
	"time"

	"github.com/kadirpekel/debatekit/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDebate() *state.DebateState {
	return &state.DebateState{
		ID:        "deb-1",
		Problem:   "how should we shard this table?",
		Status:    state.StatusCompleted,
		CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Rounds: []state.Round{
			{
				RoundNumber: 1,
				Contributions: []state.Contribution{
					{AgentID: "a1", Role: "architect", Type: state.ContributionProposal, Content: "shard by customer id", Metadata: state.ContributionMetadata{LatencyMs: 120}},
					{AgentID: "a2", Role: "performance", Type: state.ContributionCritique, Content: "hot customers will skew load", Metadata: state.ContributionMetadata{TargetAgent: "a1"}},
				},
				Summaries: map[string]state.Summary{},
			},
		},
		FinalSolution: &state.FinalSolution{
			Description:   "shard by range with rebalancing",
			Confidence:    75,
			SynthesizedBy: "judge",
			Tradeoffs:     []string{"more ops complexity"},
		},
	}
}

func TestRender_IncludesProblemAndStatus(t *testing.T) {
	out := Render(sampleDebate())
	assert.Contains(t, out, "# Debate deb-1")
	assert.Contains(t, out, "how should we shard this table?")
	assert.Contains(t, out, "**Status:** completed")
}

func TestRender_GroupsContributionsByPhase(t *testing.T) {
	out := Render(sampleDebate())
	assert.Contains(t, out, "### Proposal")
	assert.Contains(t, out, "### Critique")
	assert.Contains(t, out, "a2 → a1")
}

func TestRender_IncludesFinalSolution(t *testing.T) {
	out := Render(sampleDebate())
	assert.Contains(t, out, "## Final Solution")
	assert.Contains(t, out, "shard by range with rebalancing")
	assert.Contains(t, out, "**Confidence:** 75%")
	assert.Contains(t, out, "- more ops complexity")
}

func TestRender_RendersRequirementsCoverageTableFromBulletedProblem(t *testing.T) {
	d := sampleDebate()
	d.Problem = "Shard the orders table so that:\n- p99 read latency stays under 50ms\n- writes never block on resharding\n- the migration is reversible"
	d.FinalSolution.UnfulfilledMajorRequirements = []string{"the migration is reversible"}

	out := Render(d)
	assert.Contains(t, out, "### Requirements Coverage")
	assert.Contains(t, out, "| p99 read latency stays under 50ms | Fulfilled |")
	assert.Contains(t, out, "| writes never block on resharding | Fulfilled |")
	assert.Contains(t, out, "| the migration is reversible | Unfulfilled |")
	assert.NotContains(t, out, "### Unfulfilled Requirements")
}

func TestRender_FallsBackToFlatListWhenProblemHasNoBulletLines(t *testing.T) {
	d := sampleDebate()
	d.Problem = "how should we shard this table?"
	d.FinalSolution.UnfulfilledMajorRequirements = []string{"migration reversibility"}

	out := Render(d)
	assert.NotContains(t, out, "### Requirements Coverage")
	assert.Contains(t, out, "### Unfulfilled Requirements")
	assert.Contains(t, out, "- migration reversibility")
}

func TestRender_OmitsFinalSolutionSectionWhenAbsent(t *testing.T) {
	d := sampleDebate()
	d.FinalSolution = nil
	out := Render(d)
	assert.NotContains(t, out, "## Final Solution")
}

func TestGenerate_ReadsFromStore(t *testing.T) {
	store, err := state.NewStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	_, err = store.Create("deb-2", "problem statement", "", now)
	require.NoError(t, err)

	out, err := Generate(store, "deb-2")
	require.NoError(t, err)
	assert.Contains(t, out, "problem statement")
}

func TestGenerate_PropagatesStoreError(t *testing.T) {
	store, err := state.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = Generate(store, "does-not-exist")
	assert.Error(t, err)
}
