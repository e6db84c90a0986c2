package agent

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/kadirpekel/debatekit/config"
	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/state"
	"github.com/kadirpekel/debatekit/tools"
	"github.com/kadirpekel/debatekit/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCapability replays one canned response per call, in order,
// holding on the last entry once exhausted. A nil Err with a nil Resp is
// never scripted; either a response or an error is returned each call.
type scriptedCapability struct {
	calls     int32
	responses []scriptedResponse
}

type scriptedResponse struct {
	resp *llms.CompletionResponse
	err  error
}

func (s *scriptedCapability) Complete(ctx context.Context, req llms.CompletionRequest) (*llms.CompletionResponse, error) {
	n := int(atomic.AddInt32(&s.calls, 1)) - 1
	if n >= len(s.responses) {
		n = len(s.responses) - 1
	}
	r := s.responses[n]
	return r.resp, r.err
}

func (s *scriptedCapability) callCount() int {
	return int(atomic.LoadInt32(&s.calls))
}

// pendingToolCapability always answers with a pending tool call, so the
// inner loop only ever terminates via the toolCallLimit escape hatch.
type pendingToolCapability struct {
	calls int32
}

func (p *pendingToolCapability) Complete(ctx context.Context, req llms.CompletionRequest) (*llms.CompletionResponse, error) {
	n := atomic.AddInt32(&p.calls, 1)
	return &llms.CompletionResponse{
		Text:      "thinking",
		ToolCalls: []llms.ToolCall{{ID: fmt.Sprintf("call-%d", n), Name: "noop"}},
	}, nil
}

func (p *pendingToolCapability) callCount() int {
	return int(atomic.LoadInt32(&p.calls))
}

// noopTool is a minimal tools.Tool that always succeeds.
type noopTool struct{}

func (noopTool) Name() string        { return "noop" }
func (noopTool) Description() string { return "does nothing" }
func (noopTool) Schema() map[string]any {
	return map[string]any{}
}
func (noopTool) Execute(ctx context.Context, args map[string]any, debateContext string, debateState *state.DebateState) string {
	return tools.EncodeSuccess(map[string]any{"ok": true})
}

func newAgentForTest(t *testing.T, cap llms.Capability, toolCallLimit int, toolReg *tools.Registry) *Agent {
	t.Helper()
	cfg := config.AgentConfig{ID: "a1", Name: "a1", Role: config.RoleArchitect, Model: "test-model", Provider: "test"}
	cfg.SetDefaults()
	debateCfg := config.DebateConfig{}
	debateCfg.SetDefaults()
	if toolCallLimit > 0 {
		debateCfg.ToolCallLimit = toolCallLimit
	}
	return New(cfg, t.TempDir(), cap, toolReg, tracing.NewManager(nil), debateCfg)
}

func TestRunInnerLoop_RetryThenSucceed(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{err: debateerrors.NewProviderError("test", "complete", "transient blip", nil, true)},
		{resp: &llms.CompletionResponse{Text: "final answer after retry"}},
	}}
	a := newAgentForTest(t, cap, 0, nil)

	proposal, err := a.Propose(context.Background(), "problem", "", &state.DebateState{})
	require.NoError(t, err)
	assert.Equal(t, "final answer after retry", proposal.Content)
	assert.Equal(t, 2, cap.callCount(), "one failed attempt plus exactly one retry")
}

func TestRunInnerLoop_NonRetriableProviderErrorFailsImmediately(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{err: debateerrors.NewProviderError("test", "complete", "fatal blip", nil, false)},
		{resp: &llms.CompletionResponse{Text: "should never be reached"}},
	}}
	a := newAgentForTest(t, cap, 0, nil)

	_, err := a.Propose(context.Background(), "problem", "", &state.DebateState{})
	require.Error(t, err)
	assert.Equal(t, 1, cap.callCount(), "a non-retriable ProviderError must not be retried")
}

func TestRunInnerLoop_ToolCallThenText(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{resp: &llms.CompletionResponse{
			Text:      "let me check",
			ToolCalls: []llms.ToolCall{{ID: "call-1", Name: "noop", Arguments: map[string]any{}}},
		}},
		{resp: &llms.CompletionResponse{Text: "done, here is my proposal"}},
	}}
	reg := tools.NewRegistry()
	reg.Register(noopTool{})
	a := newAgentForTest(t, cap, 0, reg)

	proposal, err := a.Propose(context.Background(), "problem", "", &state.DebateState{})
	require.NoError(t, err)
	assert.Equal(t, "done, here is my proposal", proposal.Content)
	require.Len(t, proposal.Metadata.ToolCalls, 1)
	assert.Equal(t, "noop", proposal.Metadata.ToolCalls[0].Name)
	assert.Contains(t, proposal.Metadata.ToolCalls[0].ResultEnvelope, `"status":"success"`)
	assert.Equal(t, 2, cap.callCount())
}

func TestRunInnerLoop_ToolCallLimitEnforcement(t *testing.T) {
	cap := &pendingToolCapability{}
	reg := tools.NewRegistry()
	reg.Register(noopTool{})
	const limit = 3
	a := newAgentForTest(t, cap, limit, reg)

	_, err := a.Propose(context.Background(), "problem", "", &state.DebateState{})
	require.NoError(t, err)
	assert.Equal(t, limit+1, cap.callCount(), "at most toolCallLimit+1 capability calls per agent turn (property 8)")
}
