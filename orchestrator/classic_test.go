package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/kadirpekel/debatekit/agent"
	"github.com/kadirpekel/debatekit/config"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCapability answers every Complete call with a fixed textual response
// and never emits tool calls, so the agent inner loop always terminates
// after one turn.
type fakeCapability struct {
	calls   int32
	reply   string
	failing bool
}

func (f *fakeCapability) Complete(ctx context.Context, req llms.CompletionRequest) (*llms.CompletionResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.failing {
		return nil, fmt.Errorf("simulated provider failure")
	}
	return &llms.CompletionResponse{Text: f.reply}, nil
}

func newTestAgent(t *testing.T, id string, cap llms.Capability) *agent.Agent {
	t.Helper()
	cfg := config.AgentConfig{ID: id, Name: id, Role: config.RoleArchitect, Model: "test-model", Provider: "test"}
	cfg.SetDefaults()
	debateCfg := config.DebateConfig{}
	debateCfg.SetDefaults()
	return agent.New(cfg, t.TempDir(), cap, nil, nil, debateCfg)
}

func newTestOrchestrator(t *testing.T, rounds int) (*Orchestrator, *state.Store) {
	t.Helper()
	store, err := state.NewStore(t.TempDir())
	require.NoError(t, err)

	a1 := newTestAgent(t, "a1", &fakeCapability{reply: "proposal from a1"})
	a2 := newTestAgent(t, "a2", &fakeCapability{reply: "proposal from a2"})
	judgeAgent := newTestAgent(t, "judge", &fakeCapability{reply: `{"description":"use range sharding","confidence":80}`})
	judge := &agent.Judge{Agent: judgeAgent}

	debateCfg := config.DebateConfig{Rounds: rounds}
	debateCfg.SetDefaults()

	orch := New(store, []*agent.Agent{a1, a2}, judge, debateCfg, nil, nil)
	return orch, store
}

func TestRunClassic_RoundNumberingInvariant(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 2)

	final, err := orch.RunClassic(context.Background(), "deb-test-1", "how should we shard?", "")
	require.NoError(t, err)
	require.Len(t, final.Rounds, 2)
	for i, round := range final.Rounds {
		assert.Equal(t, i+1, round.RoundNumber)
	}
}

func TestRunClassic_PerAgentContributionCounts(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 2)

	final, err := orch.RunClassic(context.Background(), "deb-test-2", "how should we shard?", "")
	require.NoError(t, err)

	for _, round := range final.Rounds {
		proposals, critiques, refinements := 0, 0, 0
		for _, c := range round.Contributions {
			switch c.Type {
			case state.ContributionProposal:
				proposals++
			case state.ContributionCritique:
				critiques++
			case state.ContributionRefinement:
				refinements++
			}
		}
		assert.Equal(t, 2, proposals, "one proposal per agent")
		assert.Equal(t, 2, critiques, "each of 2 agents critiques the other exactly once")
		assert.Equal(t, 2, refinements, "one refinement per agent")
	}
}

func TestRunClassic_CritiquesNeverTargetTheirOwnAuthor(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 1)

	final, err := orch.RunClassic(context.Background(), "deb-test-3", "problem", "")
	require.NoError(t, err)

	for _, round := range final.Rounds {
		for _, c := range round.Contributions {
			if c.Type != state.ContributionCritique {
				continue
			}
			assert.NotEqual(t, c.AgentID, c.Metadata.TargetAgent, "a critique must not target its own author")
		}
	}
}

func TestRunClassic_FinalSolutionPopulatedOnlyWhenCompleted(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 1)

	final, err := orch.RunClassic(context.Background(), "deb-test-4", "problem", "")
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, final.Status)
	require.NotNil(t, final.FinalSolution)
	assert.Equal(t, "use range sharding", final.FinalSolution.Description)
	assert.Equal(t, "judge", final.FinalSolution.SynthesizedBy)
}

func TestRunClassic_FailingAgentDoesNotAbortOtherAgents(t *testing.T) {
	store, err := state.NewStore(t.TempDir())
	require.NoError(t, err)

	a1 := newTestAgent(t, "a1", &fakeCapability{failing: true})
	a2 := newTestAgent(t, "a2", &fakeCapability{reply: "proposal from a2"})
	judgeAgent := newTestAgent(t, "judge", &fakeCapability{reply: `{"description":"d","confidence":50}`})
	judge := &agent.Judge{Agent: judgeAgent}

	debateCfg := config.DebateConfig{Rounds: 1}
	debateCfg.SetDefaults()
	orch := New(store, []*agent.Agent{a1, a2}, judge, debateCfg, nil, nil)

	final, err := orch.RunClassic(context.Background(), "deb-test-5", "problem", "")
	require.NoError(t, err, "a single agent's provider failure must not abort the debate")

	var a2Proposals int
	for _, round := range final.Rounds {
		for _, c := range round.Contributions {
			if c.Type == state.ContributionProposal && c.AgentID == "a2" && c.Metadata.Error == "" {
				a2Proposals++
			}
		}
	}
	assert.Equal(t, 1, a2Proposals, "a2's proposal must still be recorded despite a1 failing")
}
