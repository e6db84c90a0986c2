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

// Package prompt resolves agent prompt text from an operator-supplied file
// with a built-in fallback, and records the provenance of whatever text it
// returns (spec §4.3).
package prompt

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Source discriminates where a Resolved prompt's text came from.
type Source string

const (
	SourceBuiltIn Source = "built-in"
	SourceFile    Source = "file"
)

// Resolved is the outcome of a resolution: the text to use, its
// provenance, and (if it came from a file) the absolute path read.
type Resolved struct {
	Label   string
	Text    string
	Source  Source
	AbsPath string
}

// Resolve implements spec §4.3's lookup: no promptPath means built-in; a
// configured path is read relative to configDir, and any failure to use
// it — missing, unreadable, or whitespace-only — logs a warning and falls
// back to defaultText, never propagating an error to the caller.
func Resolve(label, configDir, promptPath, defaultText string) Resolved {
	if strings.TrimSpace(promptPath) == "" {
		return Resolved{Label: label, Text: defaultText, Source: SourceBuiltIn}
	}

	abs := promptPath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(configDir, promptPath)
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		slog.Warn("prompt: falling back to built-in text", "label", label, "path", abs, "error", err)
		return Resolved{Label: label, Text: defaultText, Source: SourceBuiltIn}
	}

	text := string(raw)
	if strings.TrimSpace(text) == "" {
		slog.Warn("prompt: file is empty or whitespace-only, falling back to built-in text", "label", label, "path", abs)
		return Resolved{Label: label, Text: defaultText, Source: SourceBuiltIn}
	}

	return Resolved{Label: label, Text: text, Source: SourceFile, AbsPath: abs}
}
