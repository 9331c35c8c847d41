package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported completion providers.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Environment variables read by the HTTP adapters.
const (
	EnvAPIKey     = "OPENAI_API_KEY"
	EnvAPIVersion = "OPENAI_API_VERSION"
	EnvEndpoint   = "OPENAI_ENDPOINT"
	EnvModel      = "OPENAI_MODEL"
	EnvGeminiKey  = "GEMINI_API_KEY"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

// ClientConfig describes how to reach the completion service. The values are
// passed through to the provider unchanged.
type ClientConfig struct {
	Provider     string        `mapstructure:"provider"` // "azure", "openai" or "gemini"
	Endpoint     string        `mapstructure:"endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	APIVersion   string        `mapstructure:"api_version"`
	Model        string        `mapstructure:"model"` // model name, or the deployment name on Azure
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Timeout      time.Duration `mapstructure:"timeout"` // per call; 0 disables
}

// Profile is a set of sampling parameters for one call site.
type Profile struct {
	MaxTokens     int     `mapstructure:"max_tokens"`
	Temperature   float32 `mapstructure:"temperature"`
	SystemMessage bool    `mapstructure:"system_message"`
}

type Config struct {
	Completion ClientConfig `mapstructure:"completion"`

	Profiles struct {
		Single Profile `mapstructure:"single"` // single-item and local script paths
		Batch  Profile `mapstructure:"batch"`  // HTTP CSV batch path
	} `mapstructure:"profiles"`

	Batch struct {
		Delay time.Duration `mapstructure:"delay"`

		// Passthrough emits rows past the limit unclassified instead of dropping them.
		Passthrough bool `mapstructure:"passthrough"`
	} `mapstructure:"batch"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Mode string `mapstructure:"mode"` // gin mode: debug, release, test
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("completion.provider", ProviderAzure)
	v.SetDefault("completion.timeout", 30*time.Second)

	v.SetDefault("profiles.single.max_tokens", 20)
	v.SetDefault("profiles.single.temperature", 0)
	v.SetDefault("profiles.single.system_message", false)
	v.SetDefault("profiles.batch.max_tokens", 500)
	v.SetDefault("profiles.batch.temperature", 0.3)
	v.SetDefault("profiles.batch.system_message", true)

	v.SetDefault("batch.delay", 500*time.Millisecond)
	v.SetDefault("batch.passthrough", false)

	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads config.yaml from the given directories (the working
// directory when none are passed) and overlays environment variables. A
// missing config file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	// TICKETCLASSIFIER_SERVER_ADDR style overrides for everything else.
	v.SetEnvPrefix("TICKETCLASSIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The OPENAI_* names are the deployed contract and carry no prefix.
	_ = v.BindEnv("completion.api_key", EnvAPIKey)
	_ = v.BindEnv("completion.api_version", EnvAPIVersion)
	_ = v.BindEnv("completion.endpoint", EnvEndpoint)
	_ = v.BindEnv("completion.model", EnvModel)
	_ = v.BindEnv("completion.gemini_api_key", EnvGeminiKey)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Completion.Provider = strings.ToLower(strings.TrimSpace(cfg.Completion.Provider))
	return &cfg, nil
}

// MaskSecret shortens a credential for display: the first and last four
// characters for long values, asterisks otherwise.
func MaskSecret(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "********"
}

// Redacted returns the client settings with the API keys masked, for logging.
func (c ClientConfig) Redacted() map[string]string {
	out := map[string]string{
		"provider":    c.Provider,
		"endpoint":    c.Endpoint,
		"api_version": c.APIVersion,
		"model":       c.Model,
		"timeout":     c.Timeout.String(),
	}
	if c.APIKey != "" {
		out["api_key"] = MaskSecret(c.APIKey)
	}
	if c.GeminiAPIKey != "" {
		out["gemini_api_key"] = MaskSecret(c.GeminiAPIKey)
	}
	return out
}
