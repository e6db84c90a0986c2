package agent

import (
	"context"
	"testing"

	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJudgeForTest(t *testing.T, cap llms.Capability) *Judge {
	t.Helper()
	return &Judge{Agent: newAgentForTest(t, cap, 0, nil)}
}

func TestSynthesize_ParsesFencedJSONPayload(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{resp: &llms.CompletionResponse{Text: "Here is my synthesis:\n```json\n" +
			`{"description":"shard by range","tradeoffs":["more ops work"],` +
			`"recommendations":["add a migration runbook"],"confidence":85,` +
			`"unfulfilledMajorRequirements":["zero downtime"]}` +
			"\n```"}},
	}}
	j := newJudgeForTest(t, cap)

	fs, err := j.Synthesize(context.Background(), nil, "problem", "context")
	require.NoError(t, err)
	assert.Equal(t, "shard by range", fs.Description)
	assert.Equal(t, []string{"more ops work"}, fs.Tradeoffs)
	assert.Equal(t, []string{"add a migration runbook"}, fs.Recommendations)
	assert.Equal(t, 85, fs.Confidence)
	assert.Equal(t, []string{"zero downtime"}, fs.UnfulfilledMajorRequirements)
	assert.Equal(t, "a1", fs.SynthesizedBy)
}

func TestSynthesize_FallsBackToRawTextWhenPayloadDoesNotParse(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{resp: &llms.CompletionResponse{Text: "the model just rambled without any JSON at all"}},
	}}
	j := newJudgeForTest(t, cap)

	fs, err := j.Synthesize(context.Background(), nil, "problem", "context")
	require.NoError(t, err)
	assert.Equal(t, "the model just rambled without any JSON at all", fs.Description)
	assert.Equal(t, 50, fs.Confidence, "unparseable replies fall back to a neutral confidence")
}

func TestSynthesize_ClampsConfidenceToPercentRange(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{resp: &llms.CompletionResponse{Text: `{"description":"x","confidence":150}`}},
	}}
	j := newJudgeForTest(t, cap)

	fs, err := j.Synthesize(context.Background(), nil, "problem", "context")
	require.NoError(t, err)
	assert.Equal(t, 100, fs.Confidence)

	cap2 := &scriptedCapability{responses: []scriptedResponse{
		{resp: &llms.CompletionResponse{Text: `{"description":"x","confidence":-10}`}},
	}}
	j2 := newJudgeForTest(t, cap2)

	fs2, err := j2.Synthesize(context.Background(), nil, "problem", "context")
	require.NoError(t, err)
	assert.Equal(t, 0, fs2.Confidence)
}

func TestSynthesize_PropagatesCapabilityError(t *testing.T) {
	cap := &scriptedCapability{responses: []scriptedResponse{
		{err: assertErr("synthesis provider failure")},
	}}
	j := newJudgeForTest(t, cap)

	_, err := j.Synthesize(context.Background(), nil, "problem", "context")
	require.Error(t, err)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
