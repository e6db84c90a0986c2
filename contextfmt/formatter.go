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

// Package contextfmt builds the "previous debate" section an agent's user
// prompt is prepended with, preferring an agent's own prior summary over
// the full transcript (spec §4.5).
package contextfmt

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/debatekit/state"
)

// Prepare returns the context string to prepend to agentID's next prompt.
// It walks rounds from most recent to oldest looking for agentID's own
// summary; if one exists it is used verbatim. Otherwise, when
// includeFullHistory is set, the full formatted transcript is returned;
// with it unset and no summary available, an empty string is returned
// (the agent proceeds with no prior-debate context).
func Prepare(debateState *state.DebateState, agentID string, includeFullHistory bool) string {
	if debateState == nil || len(debateState.Rounds) == 0 {
		return ""
	}

	for i := len(debateState.Rounds) - 1; i >= 0; i-- {
		if summary, ok := debateState.Rounds[i].Summaries[agentID]; ok {
			return fmt.Sprintf("Previous Debate Summary (round %d):\n%s", debateState.Rounds[i].RoundNumber, summary.Summary)
		}
	}

	if includeFullHistory {
		return FormatFullHistory(debateState)
	}

	return ""
}

// FormatFullHistory renders every round's contributions as plain text, in
// round and contribution order.
func FormatFullHistory(debateState *state.DebateState) string {
	if debateState == nil || len(debateState.Rounds) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Previous Debate:\n")
	for _, round := range debateState.Rounds {
		fmt.Fprintf(&b, "\n--- Round %d ---\n", round.RoundNumber)
		for _, c := range round.Contributions {
			fmt.Fprintf(&b, "[%s/%s] (%s):\n%s\n\n", c.AgentID, c.Role, c.Type, c.Content)
		}
	}
	return b.String()
}

// PrependContext joins a role prompt's user text with the prepared
// context, per the agent inner loop's prependContext step (spec §4.5).
func PrependContext(userPrompt, preparedContext string) string {
	if strings.TrimSpace(preparedContext) == "" {
		return userPrompt
	}
	return preparedContext + "\n\n" + userPrompt
}
