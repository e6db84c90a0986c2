package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_ErrorAndUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("boom")
	err := NewValidationError("state", "get", "debate deb-1 not found", wrapped)

	assert.Equal(t, "state.get: debate deb-1 not found: boom", err.Error())
	assert.Equal(t, wrapped, errors.Unwrap(err))

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
}

func TestValidationError_ErrorWithoutWrapped(t *testing.T) {
	err := NewValidationError("config", "load", "missing agents", nil)
	assert.Equal(t, "config.load: missing agents", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestProviderError_RetriableFlag(t *testing.T) {
	retriable := NewProviderError("llms", "complete", "rate limited", nil, true)
	fatal := NewProviderError("llms", "complete", "bad api key", nil, false)

	assert.True(t, retriable.Retriable)
	assert.False(t, fatal.Retriable)

	var target *ProviderError
	require.True(t, errors.As(retriable, &target))
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("orchestrator", "run_round", "round 2 exceeded timeoutPerRound", nil)
	assert.Equal(t, "orchestrator.run_round: round 2 exceeded timeoutPerRound", err.Error())

	var target *TimeoutError
	assert.True(t, errors.As(err, &target))
}

func TestFatalInternal(t *testing.T) {
	err := NewFatalInternal("orchestrator", "resume", "suspend payload missing", nil)

	var target *FatalInternal
	assert.True(t, errors.As(err, &target))
	assert.NotSame(t, (*FatalInternal)(nil), target)
}

func TestErrorTypesAreDistinguishable(t *testing.T) {
	var verr error = NewValidationError("a", "b", "c", nil)
	var perr error = NewProviderError("a", "b", "c", nil, false)

	var asValidation *ValidationError
	assert.True(t, errors.As(verr, &asValidation))
	assert.False(t, errors.As(perr, &asValidation))
}
