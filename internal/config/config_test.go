package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketclassifier/internal/models"
)

func setAzureEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIKey, "sk-test-1234567890")
	t.Setenv(EnvAPIVersion, "2024-02-01")
	t.Setenv(EnvEndpoint, "https://example.openai.azure.com/")
	t.Setenv(EnvModel, "gpt-4o")
}

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	setAzureEnv(t)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ProviderAzure, cfg.Completion.Provider)
	assert.Equal(t, "sk-test-1234567890", cfg.Completion.APIKey)
	assert.Equal(t, "2024-02-01", cfg.Completion.APIVersion)
	assert.Equal(t, "https://example.openai.azure.com/", cfg.Completion.Endpoint)
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
	assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)

	assert.Equal(t, 20, cfg.Profiles.Single.MaxTokens)
	assert.Equal(t, float32(0), cfg.Profiles.Single.Temperature)
	assert.False(t, cfg.Profiles.Single.SystemMessage)
	assert.Equal(t, 500, cfg.Profiles.Batch.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Profiles.Batch.Temperature, 1e-6)
	assert.True(t, cfg.Profiles.Batch.SystemMessage)

	assert.Equal(t, 500*time.Millisecond, cfg.Batch.Delay)
	assert.False(t, cfg.Batch.Passthrough)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	setAzureEnv(t)
	dir := t.TempDir()
	yaml := `
completion:
  timeout: 5s
profiles:
  batch:
    max_tokens: 64
    temperature: 0.1
batch:
  delay: 250ms
server:
  addr: 0.0.0.0:9000
pricing:
  azure:
    gpt-4o:
      input_per_token: 0.000005
      output_per_token: 0.000015
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 64, cfg.Profiles.Batch.MaxTokens)
	assert.Equal(t, 250*time.Millisecond, cfg.Batch.Delay)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.InDelta(t, 0.000015, cfg.Pricing["azure"]["gpt-4o"].OutputPerToken, 1e-12)
	// env still wins for the credentials
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("completion: [unterminated"), 0o600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestClientConfig_MissingEnv(t *testing.T) {
	c := ClientConfig{Provider: ProviderAzure, APIKey: "k", Model: "m"}
	assert.Equal(t, []string{EnvAPIVersion, EnvEndpoint}, c.MissingEnv())

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfig))
	assert.Contains(t, err.Error(), "OPENAI_API_VERSION, OPENAI_ENDPOINT")

	g := ClientConfig{Provider: ProviderGemini, Model: "gemini-1.5-flash"}
	assert.Equal(t, []string{EnvGeminiKey}, g.MissingEnv())
}

func TestClientConfig_UnsupportedProvider(t *testing.T) {
	err := ClientConfig{Provider: "bedrock"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported completion.provider "bedrock"`)
}

func TestConfig_ValidateProfiles(t *testing.T) {
	setAzureEnv(t)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Profiles.Batch.MaxTokens = 0
	assert.ErrorContains(t, cfg.Validate(), "profiles.batch.max_tokens")

	cfg.Profiles.Batch.MaxTokens = 10
	cfg.Profiles.Single.Temperature = 3
	assert.ErrorContains(t, cfg.Validate(), "profiles.single.temperature")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd...6789", MaskSecret("abcdef0123456789"))
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Equal(t, "********", MaskSecret(""))
}

func TestRedacted_HidesKey(t *testing.T) {
	r := ClientConfig{Provider: ProviderAzure, APIKey: "sk-test-1234567890", Model: "gpt-4o"}.Redacted()
	assert.Equal(t, "sk-t...7890", r["api_key"])
	assert.NotContains(t, r, "gemini_api_key")
}

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScriptConfig(t *testing.T) {
	path := writeINI(t, `[azure_openai]
endpoint = https://example.openai.azure.com/
api_key = abcdef0123456789
model = gpt-4o
api_version = 2024-02-01
`)

	cc, err := LoadScriptConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderAzure, cc.Provider)
	assert.Equal(t, "https://example.openai.azure.com/", cc.Endpoint)
	assert.Equal(t, "abcdef0123456789", cc.APIKey)
	assert.Equal(t, "gpt-4o", cc.Model)
	assert.Equal(t, "2024-02-01", cc.APIVersion)
	assert.Equal(t, 30*time.Second, cc.Timeout)
}

func TestLoadScriptConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScriptConfig(filepath.Join(t.TempDir(), "nope.ini"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConfig))
	})

	t.Run("missing section", func(t *testing.T) {
		_, err := LoadScriptConfig(writeINI(t, "[other]\nendpoint = x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "azure_openai section not found")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := LoadScriptConfig(writeINI(t, "[azure_openai]\nendpoint = x\napi_key =\nmodel = m\napi_version = v\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing or empty api_key")
	})
}
