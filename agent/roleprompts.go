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

package agent

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/debatekit/config"
)

// DefaultSystemPrompt returns the built-in system prompt for a role, used
// when no systemPromptPath is configured or the configured file cannot be
// read (spec §4.3).
func DefaultSystemPrompt(role config.Role, name string) string {
	focus, ok := roleFocus[role.Normalize()]
	if !ok {
		focus = roleFocus[config.RoleArchitect]
	}
	return fmt.Sprintf(
		"You are %s, a %s participating in a structured technical debate. "+
			"Focus on: %s. Be concrete, cite specifics from the problem and prior "+
			"contributions, and keep your answer self-contained.",
		name, focus.title, focus.concerns)
}

// DefaultSummaryPrompt returns the built-in instruction for condensing a
// transcript into this agent's own words.
func DefaultSummaryPrompt(role config.Role) string {
	return "Summarize the debate so far from your perspective as " + string(role.Normalize()) +
		". Keep only the points relevant to your concerns and any unresolved disagreements."
}

// DefaultClarificationPrompt returns the built-in instruction for raising
// clarifying questions before the debate begins.
func DefaultClarificationPrompt(role config.Role) string {
	return "Before debating, list the clarifying questions you would need answered " +
		"as a " + string(role.Normalize()) + " to give a confident answer. One question per line."
}

type roleFocusText struct {
	title    string
	concerns string
}

var roleFocus = map[config.Role]roleFocusText{
	config.RoleArchitect:    {"software architect", "system structure, boundaries, and long-term maintainability"},
	config.RolePerformance:  {"performance engineer", "latency, throughput, and resource consumption"},
	config.RoleSecurity:     {"security engineer", "attack surface, authN/authZ, and data handling risk"},
	config.RoleTesting:      {"test engineer", "testability, edge cases, and failure modes"},
	config.RoleKISS:         {"pragmatist", "simplicity, avoiding overengineering, and shipping the smallest correct solution"},
	config.RoleGeneralist:   {"generalist reviewer", "overall coherence and balancing competing concerns"},
	config.RoleDataModeling: {"data modeler", "schema design, consistency, and query patterns"},
}

// defaultRolePrompts is the built-in RolePrompts implementation every
// Agent uses unless a test substitutes its own.
type defaultRolePrompts struct{}

func (defaultRolePrompts) ProposeUser(problem string) string {
	return "Problem:\n" + problem + "\n\nPropose a solution."
}

func (defaultRolePrompts) CritiqueUser(targetAgentID, targetContent string) string {
	return fmt.Sprintf("Critique the following proposal from %s:\n\n%s", targetAgentID, targetContent)
}

func (defaultRolePrompts) RefineUser(original string, critiques []string) string {
	var b strings.Builder
	b.WriteString("Your original proposal:\n")
	b.WriteString(original)
	b.WriteString("\n\nCritiques received:\n")
	for _, c := range critiques {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("\nRevise your proposal to address the critiques.")
	return b.String()
}

func (defaultRolePrompts) SummaryUser(content string) string {
	return content
}

func (defaultRolePrompts) ClarificationUser(problem string) string {
	return "Problem:\n" + problem
}

// DefaultRolePrompts returns the built-in RolePrompts implementation.
func DefaultRolePrompts() RolePrompts { return defaultRolePrompts{} }
