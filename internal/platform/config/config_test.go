package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "kondate", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 75*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.APITimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.InDelta(t, DefaultLLMTemperature, cfg.LLM.Temperature, 1e-9)
	assert.InDelta(t, DefaultLLMTopP, cfg.LLM.TopP, 1e-9)
	assert.Equal(t, DefaultLLMMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Minute, cfg.Advisor.CacheTTL)
	assert.True(t, cfg.Advisor.RateLimit.Enabled)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)

	require.NoError(t, cfg.Validate())
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, true, cfg.Flags["advisor.fallback"])
	assert.Equal(t, true, cfg.Flags["advisor.cache"])
	assert.EqualValues(t, 10, cfg.Flags["advisor.chat_history_limit"])
}

func TestLoad_ProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	write("base.yaml", `
llm:
  provider: ollama
  ollama:
    model: llama3
storage:
  driver: sqlite
  path: /tmp/base.db
`)
	write("prod.yaml", `
app:
  environment: prod
storage:
  path: /var/lib/kondate/kondate.db
flags:
  advisor:
    fallback: false
`)

	cfg, err := LoadFrom(dir, "prod")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Environment)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Ollama.BaseURL)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/kondate/kondate.db", cfg.Storage.Path)
	assert.Equal(t, false, cfg.Flags["advisor.fallback"])
}

func TestLoad_MissingProfileIsIgnored(t *testing.T) {
	_, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadFrom(dir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("APP_LLM_PROVIDER", "bedrock")
	t.Setenv("APP_LLM_BEDROCK_MODEL_ID", "amazon.nova-lite-v1:0")
	t.Setenv("APP_ADVISOR_RATE_LIMIT_ENABLED", "false")
	t.Setenv("APP_FLAGS_ADVISOR_CHAT_HISTORY_LIMIT", "4")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "bedrock", cfg.LLM.Provider)
	assert.Equal(t, "amazon.nova-lite-v1:0", cfg.LLM.Bedrock.ModelID)
	assert.False(t, cfg.Advisor.RateLimit.Enabled)
	assert.Equal(t, "4", cfg.Flags["advisor.chat_history_limit"])
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"server.read_timeout", "llm.ollama.base_url"})

	assert.Equal(t, "server.read_timeout", mapper("APP_SERVER_READ_TIMEOUT"))
	assert.Equal(t, "llm.ollama.base_url", mapper("APP_LLM_OLLAMA_BASE_URL"))
	assert.Equal(t, "custom.key", mapper("APP_CUSTOM_KEY"))
}
