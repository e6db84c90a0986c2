package httpclient

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryableError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	e := &RetryableError{StatusCode: 429, Message: "too many requests", Err: inner}
	assert.Equal(t, "HTTP 429: too many requests", e.Error())
	assert.Equal(t, inner, errors.Unwrap(e))
	assert.True(t, e.IsRetryable())

	e.RetryAfter = 3 * time.Second
	assert.Contains(t, e.Error(), "retry after 3s")
}

func TestParseOpenAIRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "5")
	h.Set("x-ratelimit-reset-requests", "1700000000")
	h.Set("x-ratelimit-remaining-requests", "10")
	h.Set("x-ratelimit-remaining-tokens", "1000")

	info := ParseOpenAIRateLimitHeaders(h)
	assert.Equal(t, 5*time.Second, info.RetryAfter)
	assert.Equal(t, int64(1700000000), info.ResetTime)
	assert.Equal(t, 10, info.RequestsRemaining)
	assert.Equal(t, 1000, info.TokensRemaining)
}

func TestParseOpenAIRateLimitHeaders_FallsBackToTokenResetWhenRequestResetAbsent(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-reset-tokens", "42")

	info := ParseOpenAIRateLimitHeaders(h)
	assert.Equal(t, int64(42), info.ResetTime)
}

func TestParseOpenAIRateLimitHeaders_EmptyHeadersYieldZeroValue(t *testing.T) {
	info := ParseOpenAIRateLimitHeaders(http.Header{})
	assert.Equal(t, RateLimitInfo{}, info)
}

func TestParseAnthropicRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("retry-after", "2")
	h.Set("anthropic-ratelimit-requests-reset", "2026-08-01T10:00:00Z")
	h.Set("anthropic-ratelimit-requests-remaining", "7")
	h.Set("anthropic-ratelimit-input-tokens-remaining", "500")
	h.Set("anthropic-ratelimit-output-tokens-remaining", "250")

	info := ParseAnthropicRateLimitHeaders(h)
	assert.Equal(t, 2*time.Second, info.RetryAfter)
	want, _ := time.Parse(time.RFC3339, "2026-08-01T10:00:00Z")
	assert.Equal(t, want.Unix(), info.ResetTime)
	assert.Equal(t, 7, info.RequestsRemaining)
	assert.Equal(t, 500, info.InputTokensRemaining)
	assert.Equal(t, 250, info.OutputTokensRemaining)
}

func TestParseAnthropicRateLimitHeaders_InvalidResetTimeIsIgnored(t *testing.T) {
	h := http.Header{}
	h.Set("anthropic-ratelimit-requests-reset", "not-a-timestamp")

	info := ParseAnthropicRateLimitHeaders(h)
	assert.Zero(t, info.ResetTime)
}
