// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the structured error taxonomy shared across the
// debate engine: validation, provider, timeout and fatal-internal errors.
// Tool errors never surface as Go errors (they travel inside the JSON
// envelope the agent feeds back into the conversation) and tracing errors
// are never propagated at all, so neither gets a type here.
package errors

import (
	"fmt"
	"time"
)

// baseError mirrors team.TeamError's Component/Operation/Message/Err shape,
// reused across the taxonomy instead of duplicating Error()/Unwrap() per type.
type baseError struct {
	Component string
	Operation string
	Message   string
	Err       error
	Timestamp time.Time
}

func (e *baseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Component, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Component, e.Operation, e.Message)
}

func (e *baseError) Unwrap() error { return e.Err }

// ValidationError signals malformed config, a missing required argument, an
// invalid debate document, or a non-existent required file. It surfaces to
// the CLI boundary as exit code 2 and aborts the current operation.
type ValidationError struct{ *baseError }

// NewValidationError builds a ValidationError.
func NewValidationError(component, operation, message string, err error) *ValidationError {
	return &ValidationError{&baseError{component, operation, message, err, time.Now()}}
}

// ProviderError signals a transient LLM capability failure. It is retried
// once per agent turn; if it persists, the caller records the contribution
// with error metadata and the phase continues.
type ProviderError struct {
	*baseError
	Retriable bool
}

// NewProviderError builds a ProviderError.
func NewProviderError(component, operation, message string, err error, retriable bool) *ProviderError {
	return &ProviderError{&baseError{component, operation, message, err, time.Now()}, retriable}
}

// TimeoutError signals that timeoutPerRound elapsed while a phase task was
// still running. The round's remaining tasks are cancelled; the round
// proceeds if it produced at least one proposal, otherwise it fails.
type TimeoutError struct{ *baseError }

// NewTimeoutError builds a TimeoutError.
func NewTimeoutError(component, operation, message string, err error) *TimeoutError {
	return &TimeoutError{&baseError{component, operation, message, err, time.Now()}}
}

// FatalInternal signals an invariant violation — a mismatched suspension id,
// an impossible state transition — that aborts the debate with status=failed.
type FatalInternal struct{ *baseError }

// NewFatalInternal builds a FatalInternal.
func NewFatalInternal(component, operation, message string, err error) *FatalInternal {
	return &FatalInternal{&baseError{component, operation, message, err, time.Now()}}
}
