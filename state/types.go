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

// Package state implements the per-debate JSON document (spec §4.7, §6.1):
// its data model, atomic persistence, and id generation.
package state

import (
	"encoding/json"
	"time"
)

// Status is the debate's lifecycle phase (spec §3).
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSuspended Status = "suspended"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ContributionType discriminates a Contribution's role in a round.
type ContributionType string

const (
	ContributionProposal   ContributionType = "proposal"
	ContributionCritique   ContributionType = "critique"
	ContributionRefinement ContributionType = "refinement"
)

// ContributionMetadata carries the per-turn telemetry spec §3 requires.
type ContributionMetadata struct {
	LatencyMs   int64          `json:"latencyMs"`
	TokensUsed  *int           `json:"tokensUsed,omitempty"`
	Model       string         `json:"model"`
	ToolCalls   []ToolCallInfo `json:"toolCalls,omitempty"`
	Error       string         `json:"error,omitempty"`
	RetryCount  int            `json:"retryCount,omitempty"`
	TargetAgent string         `json:"targetAgentId,omitempty"`
}

// ToolCallInfo records one tool invocation made while producing a
// Contribution, including the envelope the agent received back.
type ToolCallInfo struct {
	Name            string `json:"name"`
	Args            string `json:"args"`
	ResultEnvelope  string `json:"resultEnvelope"`
}

// Contribution is one agent's output within a round. Immutable once
// appended (spec §3 invariant).
type Contribution struct {
	AgentID  string               `json:"agentId"`
	Role     string               `json:"role"`
	Type     ContributionType     `json:"type"`
	Content  string               `json:"content"`
	Metadata ContributionMetadata `json:"metadata"`
}

// SummaryMetadata records the metrics a Summarizer produces (spec §3).
type SummaryMetadata struct {
	BeforeChars int       `json:"beforeChars"`
	AfterChars  int       `json:"afterChars"`
	Method      string    `json:"method"`
	LatencyMs   int64     `json:"latencyMs"`
	TokensUsed  *int      `json:"tokensUsed,omitempty"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Provider    string    `json:"provider"`
	Timestamp   time.Time `json:"timestamp"`
}

// Summary is one agent's condensed history at a point in the debate.
type Summary struct {
	AgentRole string          `json:"agentRole"`
	Summary   string          `json:"summary"`
	Metadata  SummaryMetadata `json:"metadata"`
}

// Round is one iteration of the phase sequence (spec §3). Append-only
// within a round until sealed.
type Round struct {
	RoundNumber   int                 `json:"roundNumber"`
	Contributions []Contribution      `json:"contributions"`
	Summaries     map[string]Summary  `json:"summaries"`
	Timestamp     time.Time           `json:"timestamp"`
}

// ClarificationItem is one pre-debate question/answer pair.
type ClarificationItem struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Answer   *string `json:"answer,omitempty"`
}

// AgentClarifications groups the clarification items raised by one agent.
type AgentClarifications struct {
	AgentID   string              `json:"agentId"`
	AgentName string              `json:"agentName"`
	Role      string              `json:"role"`
	Items     []ClarificationItem `json:"items"`
}

// FinalSolution is the judge's synthesis output (spec §3, §4.6).
type FinalSolution struct {
	Description                  string   `json:"description"`
	Tradeoffs                    []string `json:"tradeoffs"`
	Recommendations               []string `json:"recommendations"`
	Confidence                    int      `json:"confidence"`
	SynthesizedBy                 string   `json:"synthesizedBy"`
	UnfulfilledMajorRequirements  []string `json:"unfulfilledMajorRequirements,omitempty"`
}

// PromptSource records where a resolved prompt's text came from (spec §4.3).
type PromptSource struct {
	AgentID string `json:"agentId"`
	Label   string `json:"label"`
	Source  string `json:"source"` // "file" | "built-in"
	AbsPath string `json:"absPath,omitempty"`
}

// DebateState is the full persisted record of one debate (spec §3, §6.1).
type DebateState struct {
	ID            string                 `json:"id"`
	Problem       string                 `json:"problem"`
	Context       string                 `json:"context,omitempty"`
	Status        Status                 `json:"status"`
	CurrentRound  int                    `json:"currentRound"`
	Rounds        []Round                `json:"rounds"`
	Clarifications []AgentClarifications `json:"clarifications,omitempty"`
	FinalSolution *FinalSolution         `json:"finalSolution,omitempty"`
	PromptSources []PromptSource         `json:"promptSources,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`

	// Extra holds any top-level JSON key this struct does not name, so a
	// document written by a newer or differently-configured build round-trips
	// through read-modify-write without losing fields it doesn't understand
	// (spec §6.1: "unknown fields are preserved").
	Extra map[string]json.RawMessage `json:"-"`
}

// debateStateAlias has DebateState's fields without its custom
// MarshalJSON/UnmarshalJSON, letting those methods delegate the known-field
// encoding to encoding/json without recursing into themselves.
type debateStateAlias DebateState

var debateStateKnownFields = map[string]bool{
	"id": true, "problem": true, "context": true, "status": true,
	"currentRound": true, "rounds": true, "clarifications": true,
	"finalSolution": true, "promptSources": true, "createdAt": true,
	"updatedAt": true,
}

// UnmarshalJSON decodes the named fields as usual and stashes any
// unrecognized top-level key in Extra.
func (d *DebateState) UnmarshalJSON(data []byte) error {
	alias := (*debateStateAlias)(d)
	if err := json.Unmarshal(data, alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if debateStateKnownFields[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	d.Extra = extra
	return nil
}

// MarshalJSON encodes the named fields as usual, then merges in any keys
// carried in Extra that a named field doesn't already occupy.
func (d DebateState) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(debateStateAlias(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return raw, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// ExecutionResult is what an Orchestrator run returns (spec §3, §4.8).
type ExecutionResult struct {
	Status          Status         `json:"status"`
	SuspendReason   string         `json:"suspendReason,omitempty"`
	SuspendPayload  *SuspendPayload `json:"suspendPayload,omitempty"`
	Result          *DebateState   `json:"result,omitempty"`
	Err             error          `json:"-"`
}

// SuspendPayload carries everything resume needs without re-reading state
// from elsewhere (spec §3 invariant).
type SuspendPayload struct {
	DebateID  string              `json:"debateId"`
	Questions []ClarificationItem `json:"questions"`
}
