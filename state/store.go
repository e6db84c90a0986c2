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

package state

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	debateerrors "github.com/kadirpekel/debatekit/errors"
)

// Store is a crash-safe, file-backed home for DebateState documents (spec
// §4.7). Every mutating operation reads the current document, applies one
// change, and persists the whole document atomically — there is no partial
// write a crash could observe, matching the write-temp-then-rename pattern
// the teacher's document store used for its own JSON snapshots.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, debateerrors.NewFatalInternal("state", "new_store", "creating state dir", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// NewDebateID generates a debate-scoped identifier in the form
// deb-YYYYMMDD-HHMMSS-rrrr, where rrrr is four random lowercase
// alphanumeric characters (spec §6.1).
func NewDebateID(now time.Time) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("deb-%s-%s", now.Format("20060102-150405"), string(suffix))
}

// Create initializes and persists a new pending debate.
func (s *Store) Create(id, problem, context string, now time.Time) (*DebateState, error) {
	st := &DebateState{
		ID:        id,
		Problem:   problem,
		Context:   context,
		Status:    StatusPending,
		Rounds:    []Round{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get loads the debate document with the given id.
func (s *Store) Get(id string) (*DebateState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// Revive loads a suspended debate and marks it running again, for the
// resume half of the suspend/resume flow (spec §4.8).
func (s *Store) Revive(id string, now time.Time) (*DebateState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if st.Status != StatusSuspended {
		return nil, debateerrors.NewValidationError("state", "revive",
			fmt.Sprintf("debate %s is not suspended (status=%s)", id, st.Status), nil)
	}
	st.Status = StatusRunning
	st.UpdatedAt = now
	if err := s.persist(st); err != nil {
		return nil, err
	}
	return st, nil
}

// SetStatus transitions the debate's lifecycle status.
func (s *Store) SetStatus(id string, status Status, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		st.Status = status
		return nil
	})
}

// SetClarifications records the clarifying questions (and later, answers)
// raised before the debate proper begins.
func (s *Store) SetClarifications(id string, clar []AgentClarifications, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		st.Clarifications = clar
		return nil
	})
}

// SetPromptSources records where each agent's resolved prompt text came from.
func (s *Store) SetPromptSources(id string, sources []PromptSource, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		st.PromptSources = sources
		return nil
	})
}

// SetFinalSolution records the judge's synthesis and marks the debate
// completed (spec §3 invariant: finalSolution is populated iff
// status==completed).
func (s *Store) SetFinalSolution(id string, solution FinalSolution, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		st.FinalSolution = &solution
		st.Status = StatusCompleted
		return nil
	})
}

// AppendContribution appends one contribution to the named round, creating
// the round if it does not yet exist. Rounds are 1-indexed and
// roundNumber must equal currentRound+1 the first time a round is touched
// (spec §3 invariant: rounds[i].roundNumber == i+1).
func (s *Store) AppendContribution(id string, roundNumber int, contribution Contribution, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		idx := roundNumber - 1
		if idx < 0 {
			return debateerrors.NewValidationError("state", "append_contribution",
				fmt.Sprintf("invalid round number %d", roundNumber), nil)
		}
		if idx == len(st.Rounds) {
			st.Rounds = append(st.Rounds, Round{
				RoundNumber: roundNumber,
				Summaries:   map[string]Summary{},
				Timestamp:   now,
			})
			st.CurrentRound = roundNumber
		} else if idx > len(st.Rounds) {
			return debateerrors.NewValidationError("state", "append_contribution",
				fmt.Sprintf("round %d appended out of order, have %d rounds", roundNumber, len(st.Rounds)), nil)
		}
		st.Rounds[idx].Contributions = append(st.Rounds[idx].Contributions, contribution)
		return nil
	})
}

// SetSummary records an agent's summary, attached to the round in which the
// summarized window begins (resolved Open Question, spec §9), creating that
// round if no contribution has been appended to it yet.
func (s *Store) SetSummary(id string, roundNumber int, agentID string, summary Summary) (*DebateState, error) {
	return s.mutate(id, time.Time{}, func(st *DebateState) error {
		idx := roundNumber - 1
		if idx < 0 || idx > len(st.Rounds) {
			return debateerrors.NewValidationError("state", "set_summary",
				fmt.Sprintf("round %d does not exist", roundNumber), nil)
		}
		if idx == len(st.Rounds) {
			st.Rounds = append(st.Rounds, Round{
				RoundNumber: roundNumber,
				Summaries:   map[string]Summary{},
				Timestamp:   time.Now(),
			})
			st.CurrentRound = roundNumber
		}
		if st.Rounds[idx].Summaries == nil {
			st.Rounds[idx].Summaries = map[string]Summary{}
		}
		st.Rounds[idx].Summaries[agentID] = summary
		return nil
	})
}

// SealRound marks the given round number as the last complete round,
// advancing currentRound. No-op if the round is already sealed.
func (s *Store) SealRound(id string, roundNumber int, now time.Time) (*DebateState, error) {
	return s.mutate(id, now, func(st *DebateState) error {
		if roundNumber > st.CurrentRound {
			st.CurrentRound = roundNumber
		}
		return nil
	})
}

func (s *Store) mutate(id string, now time.Time, fn func(*DebateState) error) (*DebateState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if !now.IsZero() {
		st.UpdatedAt = now
	}
	if err := s.persist(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) read(id string) (*DebateState, error) {
	raw, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, debateerrors.NewValidationError("state", "get",
				fmt.Sprintf("debate %s not found", id), nil)
		}
		return nil, debateerrors.NewFatalInternal("state", "get", "reading debate file", err)
	}
	st := &DebateState{}
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, debateerrors.NewFatalInternal("state", "get", "decoding debate file", err)
	}
	return st, nil
}

// write is the no-read entry point used by Create; it takes the store lock
// itself.
func (s *Store) write(st *DebateState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(st)
}

// persist atomically writes st to its file: marshal, write to a sibling
// temp file, fsync, then rename over the destination. Renaming within the
// same directory is atomic on POSIX filesystems, so a crash mid-write
// leaves the previous version intact rather than a half-written document —
// the pattern the teacher's document store used for its own snapshots.
func (s *Store) persist(st *DebateState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return debateerrors.NewFatalInternal("state", "persist", "encoding debate state", err)
	}

	dest := s.pathFor(st.ID)
	tmp, err := os.CreateTemp(s.dir, st.ID+".tmp-*")
	if err != nil {
		return debateerrors.NewFatalInternal("state", "persist", "creating temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return debateerrors.NewFatalInternal("state", "persist", "writing temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return debateerrors.NewFatalInternal("state", "persist", "fsyncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return debateerrors.NewFatalInternal("state", "persist", "closing temp file", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return debateerrors.NewFatalInternal("state", "persist", "renaming into place", err)
	}
	return nil
}
