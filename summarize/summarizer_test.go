package summarize

import (
	"context"
	"fmt"
	"testing"

	"github.com/kadirpekel/debatekit/config"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCapability struct {
	text  string
	usage *llms.Usage
	err   error
}

func (s *stubCapability) Complete(ctx context.Context, req llms.CompletionRequest) (*llms.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llms.CompletionResponse{Text: s.text, Usage: s.usage}, nil
}

func TestSummarize_TruncatesToMaxLength(t *testing.T) {
	cap := &stubCapability{text: "this is a much longer summary than the configured cap allows for"}
	s := New(cap, "openai", "gpt-4o-mini")

	cfg := config.SummarizationConfig{MaxLength: 10}
	cfg.SetDefaults()
	cfg.MaxLength = 10

	out, err := s.Summarize(context.Background(), "some long transcript content", "architect", cfg, "system", "summarize please")
	require.NoError(t, err)
	assert.Len(t, out.Summary, 10)
	assert.Equal(t, len("some long transcript content"), out.Metadata.BeforeChars)
	assert.Equal(t, 10, out.Metadata.AfterChars)
	assert.Equal(t, "architect", out.AgentRole)
	assert.Equal(t, "llm", out.Metadata.Method)
}

func TestSummarize_RecordsBeforeAfterAndProvider(t *testing.T) {
	cap := &stubCapability{text: "short", usage: &llms.Usage{TotalTokens: 42}}
	s := New(cap, "anthropic", "claude-3")

	cfg := config.SummarizationConfig{}
	cfg.SetDefaults()

	content := "the original unsummarized content block"
	out, err := s.Summarize(context.Background(), content, "security", cfg, "sys", "sum")
	require.NoError(t, err)
	assert.Equal(t, len(content), out.Metadata.BeforeChars)
	assert.Equal(t, len("short"), out.Metadata.AfterChars)
	assert.Equal(t, "anthropic", out.Metadata.Provider)
	require.NotNil(t, out.Metadata.TokensUsed)
	assert.Equal(t, 42, *out.Metadata.TokensUsed)
}

func TestSummarize_PropagatesProviderErrorUnchanged(t *testing.T) {
	wantErr := fmt.Errorf("provider unavailable")
	cap := &stubCapability{err: wantErr}
	s := New(cap, "openai", "gpt-4o-mini")

	cfg := config.SummarizationConfig{}
	cfg.SetDefaults()

	_, err := s.Summarize(context.Background(), "content", "architect", cfg, "sys", "sum")
	assert.ErrorIs(t, err, wantErr)
}
