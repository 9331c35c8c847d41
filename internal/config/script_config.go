package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ticketclassifier/internal/models"
)

// ScriptSection is the INI section the local batch script reads.
const ScriptSection = "azure_openai"

var scriptKeys = []string{"endpoint", "api_key", "model", "api_version"}

// LoadScriptConfig reads the azure_openai section of an INI file such as
//
//	[azure_openai]
//	endpoint = https://example.openai.azure.com/
//	api_key = ...
//	model = gpt-4o
//	api_version = 2024-02-01
//
// Every key must be present and non-empty.
func LoadScriptConfig(path string) (ClientConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return ClientConfig{}, fmt.Errorf("%w: config file %s: %v", models.ErrConfig, path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return ClientConfig{}, fmt.Errorf("%w: read %s: %v", models.ErrConfig, path, err)
	}

	section := v.GetStringMapString(ScriptSection)
	if len(section) == 0 {
		return ClientConfig{}, fmt.Errorf("%w: %s section not found in config file: %s", models.ErrConfig, ScriptSection, path)
	}
	for _, key := range scriptKeys {
		if strings.TrimSpace(section[key]) == "" {
			return ClientConfig{}, fmt.Errorf("%w: missing or empty %s in config file", models.ErrConfig, key)
		}
	}

	return ClientConfig{
		Provider:   ProviderAzure,
		Endpoint:   section["endpoint"],
		APIKey:     section["api_key"],
		APIVersion: section["api_version"],
		Model:      section["model"],
		Timeout:    30 * time.Second,
	}, nil
}
