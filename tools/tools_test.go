package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSuccessAndError(t *testing.T) {
	ok := EncodeSuccess(map[string]any{"path": "a.txt", "content": "hi"})
	assert.JSONEq(t, `{"status":"success","result":{"path":"a.txt","content":"hi"}}`, ok)

	bad := EncodeError("boom")
	assert.JSONEq(t, `{"status":"error","error":"boom"}`, bad)
}

func TestRegistry_RegisterOverwritesByName(t *testing.T) {
	reg := NewRegistry()
	dir := t.TempDir()

	first := NewFileReadTool(dir, 0)
	reg.Register(first)
	assert.True(t, reg.Has("file_read"))

	second := NewFileReadTool(dir, 10)
	reg.Register(second)

	defs := reg.Definitions()
	require.Len(t, defs, 1, "rebinding the same tool name must overwrite, not accumulate")
	assert.Equal(t, "file_read", defs[0].Name)
}

func TestRegistry_Invoke_UnknownToolEncodesError(t *testing.T) {
	reg := NewRegistry()
	result, _ := reg.Invoke(context.Background(), "nonexistent", nil, "", nil)
	assert.JSONEq(t, `{"status":"error","error":"unknown tool: nonexistent"}`, result)
}

func TestFileReadTool_ReadsWithinContextDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello world"), 0o644))

	tool := NewFileReadTool(dir, 0)
	result := tool.Execute(context.Background(), map[string]any{"path": "notes.txt"}, "", nil)
	assert.JSONEq(t, `{"status":"success","result":{"path":"notes.txt","content":"hello world"}}`, result)
}

func TestFileReadTool_RefusesEscapingContextDir(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("nope"), 0o644))

	tool := NewFileReadTool(dir, 0)
	result := tool.Execute(context.Background(), map[string]any{
		"path": filepath.Join("..", filepath.Base(outside), "secret.txt"),
	}, "", nil)

	assert.Contains(t, result, `"status":"error"`)
	assert.Contains(t, result, "escapes context root")
}

func TestFileReadTool_MissingPathArgument(t *testing.T) {
	tool := NewFileReadTool(t.TempDir(), 0)
	result := tool.Execute(context.Background(), map[string]any{}, "", nil)
	assert.JSONEq(t, `{"status":"error","error":"missing required argument: path"}`, result)
}

func TestFileReadTool_TruncatesAtMaxBytes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte("0123456789"), 0o644))

	tool := NewFileReadTool(dir, 4)
	result := tool.Execute(context.Background(), map[string]any{"path": "big.txt"}, "", nil)
	assert.JSONEq(t, `{"status":"success","result":{"path":"big.txt","content":"0123"}}`, result)
}

func TestListFilesTool_SortsEntriesAndMarksDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "afile.txt"), []byte("x"), 0o644))

	tool := NewListFilesTool(dir)
	result := tool.Execute(context.Background(), map[string]any{}, "", nil)
	assert.Contains(t, result, `"afile.txt"`)
	assert.Contains(t, result, `"zdir`+string(filepath.Separator)+`"`)
}

func TestListFilesTool_RefusesEscapingContextDir(t *testing.T) {
	tool := NewListFilesTool(t.TempDir())
	result := tool.Execute(context.Background(), map[string]any{"path": "../../etc"}, "", nil)
	assert.Contains(t, result, `"status":"error"`)
}
