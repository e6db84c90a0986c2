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

// Package report renders a completed debate's State Store document as a
// human-readable Markdown summary, using only the store's public Get
// operation (supplemented feature, not part of the core spec).
package report

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/debatekit/state"
)

// Generate reads debateID from store and renders it as Markdown.
func Generate(store *state.Store, debateID string) (string, error) {
	debateState, err := store.Get(debateID)
	if err != nil {
		return "", err
	}
	return Render(debateState), nil
}

// Render renders a DebateState document to Markdown.
func Render(d *state.DebateState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Debate %s\n\n", d.ID)
	fmt.Fprintf(&b, "**Status:** %s  \n**Rounds:** %d  \n**Created:** %s  \n\n",
		d.Status, len(d.Rounds), d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "## Problem\n\n%s\n\n", d.Problem)
	if d.Context != "" {
		fmt.Fprintf(&b, "## Context\n\n%s\n\n", d.Context)
	}

	if len(d.Clarifications) > 0 {
		b.WriteString("## Clarifications\n\n")
		for _, ac := range d.Clarifications {
			fmt.Fprintf(&b, "### %s (%s)\n\n", ac.AgentName, ac.Role)
			for _, item := range ac.Items {
				answer := "_unanswered_"
				if item.Answer != nil {
					answer = *item.Answer
				}
				fmt.Fprintf(&b, "- **Q:** %s\n  **A:** %s\n", item.Question, answer)
			}
			b.WriteString("\n")
		}
	}

	for _, round := range d.Rounds {
		fmt.Fprintf(&b, "## Round %d\n\n", round.RoundNumber)
		for _, phase := range []state.ContributionType{state.ContributionProposal, state.ContributionCritique, state.ContributionRefinement} {
			var matched []state.Contribution
			for _, c := range round.Contributions {
				if c.Type == phase {
					matched = append(matched, c)
				}
			}
			if len(matched) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", capitalize(string(phase)))
			for _, c := range matched {
				heading := c.AgentID
				if c.Metadata.TargetAgent != "" {
					heading = fmt.Sprintf("%s → %s", c.AgentID, c.Metadata.TargetAgent)
				}
				fmt.Fprintf(&b, "**%s** (%s, %dms)\n\n%s\n\n", heading, c.Role, c.Metadata.LatencyMs, c.Content)
				if c.Metadata.Error != "" {
					fmt.Fprintf(&b, "> error: %s\n\n", c.Metadata.Error)
				}
			}
		}
		for agentID, summary := range round.Summaries {
			fmt.Fprintf(&b, "**Summary (%s):** %s\n\n", agentID, summary.Summary)
		}
	}

	if d.FinalSolution != nil {
		fs := d.FinalSolution
		b.WriteString("## Final Solution\n\n")
		fmt.Fprintf(&b, "%s\n\n**Confidence:** %d%%  \n**Synthesized by:** %s\n\n", fs.Description, fs.Confidence, fs.SynthesizedBy)
		if len(fs.Tradeoffs) > 0 {
			b.WriteString("### Tradeoffs\n\n")
			for _, t := range fs.Tradeoffs {
				fmt.Fprintf(&b, "- %s\n", t)
			}
			b.WriteString("\n")
		}
		if len(fs.Recommendations) > 0 {
			b.WriteString("### Recommendations\n\n")
			for _, r := range fs.Recommendations {
				fmt.Fprintf(&b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
		if reqs := extractRequirementLines(d.Problem); len(reqs) > 0 {
			b.WriteString(requirementCoverageTable(reqs, fs.UnfulfilledMajorRequirements))
		} else if len(fs.UnfulfilledMajorRequirements) > 0 {
			b.WriteString("### Unfulfilled Requirements\n\n")
			for _, r := range fs.UnfulfilledMajorRequirements {
				fmt.Fprintf(&b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// extractRequirementLines pulls the bullet/numbered lines out of a problem
// statement — the lines a reader would recognize as individually stated
// requirements, as opposed to connective prose.
func extractRequirementLines(problem string) []string {
	var out []string
	for _, line := range strings.Split(problem, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		stripped := strings.TrimLeft(trimmed, "-*0123456789. )")
		stripped = strings.TrimSpace(stripped)
		if stripped == "" || stripped == trimmed {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

// requirementCoverageTable renders the problem's requirement lines against
// the judge's unfulfilledMajorRequirements as a Markdown table, marking each
// requirement line fulfilled unless the judge named it (or named something
// it textually contains) as unfulfilled.
func requirementCoverageTable(requirements, unfulfilled []string) string {
	var b strings.Builder
	b.WriteString("### Requirements Coverage\n\n")
	b.WriteString("| Requirement | Status |\n")
	b.WriteString("| --- | --- |\n")
	for _, req := range requirements {
		status := "Fulfilled"
		for _, u := range unfulfilled {
			if requirementMatches(req, u) {
				status = "Unfulfilled"
				break
			}
		}
		fmt.Fprintf(&b, "| %s | %s |\n", escapeTableCell(req), status)
	}
	b.WriteString("\n")
	return b.String()
}

func requirementMatches(requirement, unfulfilled string) bool {
	r := strings.ToLower(strings.TrimSpace(requirement))
	u := strings.ToLower(strings.TrimSpace(unfulfilled))
	if r == "" || u == "" {
		return false
	}
	return strings.Contains(r, u) || strings.Contains(u, r)
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
