package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NoPathUsesBuiltIn(t *testing.T) {
	r := Resolve("engineer.system", "/cfg", "", "default prompt text")
	assert.Equal(t, SourceBuiltIn, r.Source)
	assert.Equal(t, "default prompt text", r.Text)
	assert.Empty(t, r.AbsPath)
}

func TestResolve_RelativePathReadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engineer.txt"), []byte("be terse and specific"), 0o644))

	r := Resolve("engineer.system", dir, "engineer.txt", "fallback")
	assert.Equal(t, SourceFile, r.Source)
	assert.Equal(t, "be terse and specific", r.Text)
	assert.Equal(t, filepath.Join(dir, "engineer.txt"), r.AbsPath)
}

func TestResolve_AbsolutePathBypassesConfigDir(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "judge.txt")
	require.NoError(t, os.WriteFile(full, []byte("weigh tradeoffs carefully"), 0o644))

	r := Resolve("judge.system", "/unrelated", full, "fallback")
	assert.Equal(t, SourceFile, r.Source)
	assert.Equal(t, full, r.AbsPath)
}

func TestResolve_MissingFileFallsBackToBuiltIn(t *testing.T) {
	r := Resolve("engineer.system", t.TempDir(), "does-not-exist.txt", "fallback text")
	assert.Equal(t, SourceBuiltIn, r.Source)
	assert.Equal(t, "fallback text", r.Text)
}

func TestResolve_WhitespaceOnlyFileFallsBackToBuiltIn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blank.txt"), []byte("   \n\t  "), 0o644))

	r := Resolve("engineer.system", dir, "blank.txt", "fallback text")
	assert.Equal(t, SourceBuiltIn, r.Source)
	assert.Equal(t, "fallback text", r.Text)
}
