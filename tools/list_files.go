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
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kadirpekel/debatekit/state"
)

// ListFilesTool lists the entries of a directory within the context root.
type ListFilesTool struct {
	ContextDir string
}

// NewListFilesTool returns a ListFilesTool rooted at contextDir.
func NewListFilesTool(contextDir string) *ListFilesTool {
	return &ListFilesTool{ContextDir: contextDir}
}

func (t *ListFilesTool) Name() string        { return "list_files" }
func (t *ListFilesTool) Description() string { return "List files and directories under a path within the debate's context directory." }

func (t *ListFilesTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Directory path, relative to the context directory. Defaults to the root.",
			},
		},
	}
}

func (t *ListFilesTool) Execute(ctx context.Context, args map[string]any, debateContext string, debateState *state.DebateState) string {
	raw, _ := args["path"].(string)
	if raw == "" {
		raw = "."
	}

	resolved, err := resolveWithin(t.ContextDir, raw)
	if err != nil {
		return EncodeError(err.Error())
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return EncodeError(fmt.Sprintf("listing %s: %v", raw, err))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return EncodeSuccess(map[string]any{
		"path":    raw,
		"entries": names,
	})
}
