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
	"fmt"
	"path/filepath"
	"strings"
)

// resolveWithin resolves candidate relative to root and confirms the result
// is a descendant of root, symlinks on both sides resolved first (spec
// §4.2). File-backed tools refuse to operate outside their configured
// context directory.
func resolveWithin(root, candidate string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolving context root: %w", err)
	}

	joined := candidate
	if !filepath.IsAbs(candidate) {
		joined = filepath.Join(realRoot, candidate)
	}

	// EvalSymlinks requires the target to exist; fall back to evaluating
	// the deepest existing ancestor so non-existent-but-legitimate
	// destinations (e.g. a file a tool is about to create) still resolve.
	resolved, err := evalSymlinksLenient(joined)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(realRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes context root %q", candidate, root)
	}
	return resolved, nil
}

func evalSymlinksLenient(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	parent := filepath.Dir(path)
	if parent == path {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	resolvedParent, perr := evalSymlinksLenient(parent)
	if perr != nil {
		return "", perr
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
