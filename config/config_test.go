package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "architect", cfg.Agents[0].ID)
	assert.Equal(t, 2, cfg.Debate.Rounds)
	assert.Equal(t, "classic", cfg.Debate.OrchestratorType)
}

func TestLoad_ParsesAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debate-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"agents": [
			{"id": "sec", "name": "Security", "role": "security", "model": "gpt-4o-mini"}
		],
		"judge": {"id": "judge", "name": "Judge", "model": "gpt-4o-mini"},
		"debate": {"rounds": 3, "timeoutPerRound": "90s"}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, RoleSecurity, cfg.Agents[0].Role)
	assert.Equal(t, "openai", cfg.Agents[0].Provider, "provider default applies")
	assert.Equal(t, 3, cfg.Debate.Rounds)
	assert.Equal(t, "classic", cfg.Debate.OrchestratorType)
}

func TestLoad_ExpandsEnvVarsWithDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debate-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"agents": [{"id": "a1", "name": "A1", "model": "${TEST_MODEL:-gpt-4o-mini}"}],
		"debate": {"rounds": 1}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Agents[0].Model)
}

func TestLoad_InvalidRoundsFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debate-config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"agents": [{"id": "a1", "name": "A1", "model": "m"}],
		"debate": {"rounds": 0}
	}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate_DuplicateAgentIDRejected(t *testing.T) {
	cfg := &Config{
		Agents: []AgentConfig{
			{ID: "a1", Model: "m"},
			{ID: "a1", Model: "m"},
		},
		Judge: &AgentConfig{ID: "judge", Model: "m"},
	}
	cfg.Debate.SetDefaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate agent id")
}

func TestAgentConfig_IsEnabled(t *testing.T) {
	enabled := true
	disabled := false
	assert.True(t, (&AgentConfig{}).IsEnabled(), "nil Enabled defaults to true")
	assert.True(t, (&AgentConfig{Enabled: &enabled}).IsEnabled())
	assert.False(t, (&AgentConfig{Enabled: &disabled}).IsEnabled())
}

func TestDebateConfig_Validate_RejectsUnknownOrchestratorType(t *testing.T) {
	d := DebateConfig{}
	d.SetDefaults()
	d.OrchestratorType = "distributed"
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orchestratorType")
}

func TestDebateConfig_Validate_RejectsUnknownTraceBackend(t *testing.T) {
	d := DebateConfig{}
	d.SetDefaults()
	d.Trace = "datadog"
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trace backend")
}

func TestRole_NormalizeFallsBackToArchitect(t *testing.T) {
	assert.Equal(t, RoleArchitect, Role("made-up-role").Normalize())
	assert.Equal(t, RoleSecurity, RoleSecurity.Normalize())
}
