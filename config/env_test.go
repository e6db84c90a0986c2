package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLangfuseCredentials_MissingKeysDisablesTracing(t *testing.T) {
	t.Setenv("LANGFUSE_SECRET_KEY", "")
	t.Setenv("LANGFUSE_PUBLIC_KEY", "")
	t.Setenv("LANGFUSE_BASE_URL", "")

	creds, ok := LoadLangfuseCredentials()
	assert.False(t, ok)
	assert.Equal(t, "https://cloud.langfuse.com", creds.BaseURL, "default base URL still populated")
}

func TestLoadLangfuseCredentials_BothKeysPresentEnablesTracing(t *testing.T) {
	t.Setenv("LANGFUSE_SECRET_KEY", "sk-123")
	t.Setenv("LANGFUSE_PUBLIC_KEY", "pk-456")
	t.Setenv("LANGFUSE_BASE_URL", "https://example.com")

	creds, ok := LoadLangfuseCredentials()
	assert.True(t, ok)
	assert.Equal(t, "sk-123", creds.SecretKey)
	assert.Equal(t, "pk-456", creds.PublicKey)
	assert.Equal(t, "https://example.com", creds.BaseURL)
}

func TestLoadDotEnv_MissingFileIsNotFatal(t *testing.T) {
	assert.NotPanics(t, func() {
		LoadDotEnv("/nonexistent/path/.env")
	})
}
