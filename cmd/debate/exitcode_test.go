package main

import (
	"errors"
	"testing"

	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 0, exitCodeFor(nil))
	assert.Equal(t, 2, exitCodeFor(debateerrors.NewValidationError("cmd", "op", "bad input", nil)))
	assert.Equal(t, 1, exitCodeFor(errors.New("some other failure")))
	assert.Equal(t, 1, exitCodeFor(debateerrors.NewFatalInternal("cmd", "op", "invariant broken", nil)))
}
