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

package tools

import (
	"context"
	"strings"

	"github.com/kadirpekel/debatekit/state"
)

// ContextSearchTool finds prior contributions mentioning a query string.
// It prefers the full debate state's rounds over the per-call formatted
// context string (spec §4.2): a live DebateState gives it exact per-agent,
// per-round provenance that a flattened context blob cannot.
type ContextSearchTool struct {
	MaxResults int
}

// NewContextSearchTool returns a ContextSearchTool. maxResults<=0 defaults
// to 5.
func NewContextSearchTool(maxResults int) *ContextSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &ContextSearchTool{MaxResults: maxResults}
}

func (t *ContextSearchTool) Name() string { return "context_search" }
func (t *ContextSearchTool) Description() string {
	return "Search prior proposals, critiques, and refinements for a keyword or phrase."
}

func (t *ContextSearchTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Keyword or phrase to search for, case-insensitive.",
			},
		},
		"required": []string{"query"},
	}
}

type searchHit struct {
	Round   int    `json:"round"`
	AgentID string `json:"agentId"`
	Type    string `json:"type"`
	Excerpt string `json:"excerpt"`
}

func (t *ContextSearchTool) Execute(ctx context.Context, args map[string]any, debateContext string, debateState *state.DebateState) string {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return EncodeError("missing required argument: query")
	}
	needle := strings.ToLower(query)

	var hits []searchHit
	if debateState != nil {
		for _, round := range debateState.Rounds {
			for _, c := range round.Contributions {
				if !strings.Contains(strings.ToLower(c.Content), needle) {
					continue
				}
				hits = append(hits, searchHit{
					Round:   round.RoundNumber,
					AgentID: c.AgentID,
					Type:    string(c.Type),
					Excerpt: excerptAround(c.Content, needle),
				})
				if len(hits) >= t.MaxResults {
					break
				}
			}
			if len(hits) >= t.MaxResults {
				break
			}
		}
	} else if strings.Contains(strings.ToLower(debateContext), needle) {
		hits = append(hits, searchHit{Excerpt: excerptAround(debateContext, needle)})
	}

	return EncodeSuccess(map[string]any{
		"query":   query,
		"matches": hits,
	})
}

func excerptAround(content, lowerNeedle string) string {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, lowerNeedle)
	if idx == -1 {
		return ""
	}
	start := idx - 80
	if start < 0 {
		start = 0
	}
	end := idx + len(lowerNeedle) + 80
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}
