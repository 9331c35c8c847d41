package config

import (
	"fmt"
	"strings"

	"ticketclassifier/internal/models"
)

// MissingEnv lists the environment variable names whose values the selected
// provider needs but which are empty.
func (c ClientConfig) MissingEnv() []string {
	var missing []string
	check := func(value, env string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, env)
		}
	}

	switch c.Provider {
	case ProviderGemini:
		check(c.GeminiAPIKey, EnvGeminiKey)
		check(c.Model, EnvModel)
	case ProviderOpenAI:
		check(c.APIKey, EnvAPIKey)
		check(c.Model, EnvModel)
	default:
		check(c.APIKey, EnvAPIKey)
		check(c.APIVersion, EnvAPIVersion)
		check(c.Endpoint, EnvEndpoint)
		check(c.Model, EnvModel)
	}
	return missing
}

// Validate checks the client settings needed to make a completion call.
func (c ClientConfig) Validate() error {
	switch c.Provider {
	case ProviderAzure, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unsupported completion.provider %q", models.ErrConfig, c.Provider)
	}
	if missing := c.MissingEnv(); len(missing) > 0 {
		return fmt.Errorf("%w: missing required settings: %s", models.ErrConfig, strings.Join(missing, ", "))
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: completion.timeout must not be negative", models.ErrConfig)
	}
	return nil
}

func (p Profile) validate(name string) error {
	if p.MaxTokens <= 0 {
		return fmt.Errorf("%w: profiles.%s.max_tokens must be positive", models.ErrConfig, name)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("%w: profiles.%s.temperature must be between 0 and 2", models.ErrConfig, name)
	}
	return nil
}

// Validate checks everything the HTTP server needs before it starts.
func (c *Config) Validate() error {
	if err := c.Completion.Validate(); err != nil {
		return err
	}
	if err := c.Profiles.Single.validate("single"); err != nil {
		return err
	}
	if err := c.Profiles.Batch.validate("batch"); err != nil {
		return err
	}
	if c.Batch.Delay < 0 {
		return fmt.Errorf("%w: batch.delay must not be negative", models.ErrConfig)
	}

	// Pricing is optional, but if present must be valid.
	for provider, modelPrices := range c.Pricing {
		for model, price := range modelPrices {
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("%w: pricing for provider '%s', model '%s' has negative token cost", models.ErrConfig, provider, model)
			}
		}
	}
	return nil
}
