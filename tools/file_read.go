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

	"github.com/kadirpekel/debatekit/state"
)

// FileReadTool reads one file's contents, refusing any path that resolves
// outside its configured context directory (spec §4.2).
type FileReadTool struct {
	ContextDir string
	MaxBytes   int
}

// NewFileReadTool returns a FileReadTool rooted at contextDir. maxBytes<=0
// means unlimited.
func NewFileReadTool(contextDir string, maxBytes int) *FileReadTool {
	return &FileReadTool{ContextDir: contextDir, MaxBytes: maxBytes}
}

func (t *FileReadTool) Name() string        { return "file_read" }
func (t *FileReadTool) Description() string { return "Read the contents of a file within the debate's context directory." }

func (t *FileReadTool) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the file, relative to the context directory.",
			},
		},
		"required": []string{"path"},
	}
}

func (t *FileReadTool) Execute(ctx context.Context, args map[string]any, debateContext string, debateState *state.DebateState) string {
	raw, ok := args["path"].(string)
	if !ok || raw == "" {
		return EncodeError("missing required argument: path")
	}

	resolved, err := resolveWithin(t.ContextDir, raw)
	if err != nil {
		return EncodeError(err.Error())
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return EncodeError(fmt.Sprintf("reading %s: %v", raw, err))
	}
	if info.IsDir() {
		return EncodeError(fmt.Sprintf("%s is a directory, not a file", raw))
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return EncodeError(fmt.Sprintf("reading %s: %v", raw, err))
	}
	if t.MaxBytes > 0 && len(data) > t.MaxBytes {
		data = data[:t.MaxBytes]
	}
	return EncodeSuccess(map[string]any{
		"path":    raw,
		"content": string(data),
	})
}
