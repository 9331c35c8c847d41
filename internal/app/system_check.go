package app

import (
	"os"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"ticketclassifier/internal/config"
)

// SystemReport is the diagnostic payload served by /api/system_check and
// printed by the doctor command. Secrets never appear in it.
type SystemReport struct {
	Status      string            `json:"status"`
	GoVersion   string            `json:"go_version"`
	Provider    string            `json:"provider"`
	Model       string            `json:"model"`
	APIVersion  string            `json:"api_version,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty"`
	Environment map[string]bool   `json:"environment"`   // required variable -> set
	MissingEnv  []string          `json:"missing_env"`   // required but empty
	ProxyEnv    []string          `json:"proxy_env"`     // names only
	Modules     map[string]string `json:"module_checks"` // dependency -> version
}

// Healthy reports whether every required setting is present.
func (r SystemReport) Healthy() bool { return len(r.MissingEnv) == 0 }

// moduleChecks are the dependencies whose versions the report lists.
var moduleChecks = []string{
	"github.com/sashabaranov/go-openai",
	"github.com/google/generative-ai-go",
	"github.com/gin-gonic/gin",
	"github.com/spf13/viper",
}

// SystemCheck inspects the loaded configuration and process environment.
func SystemCheck(cfg *config.Config) SystemReport {
	cc := cfg.Completion
	r := SystemReport{
		Status:      "ok",
		GoVersion:   runtime.Version(),
		Provider:    cc.Provider,
		Model:       cc.Model,
		APIVersion:  cc.APIVersion,
		Endpoint:    maskEndpoint(cc.Endpoint),
		Environment: map[string]bool{},
		MissingEnv:  cc.MissingEnv(),
		ProxyEnv:    proxyEnvNames(os.Environ()),
		Modules:     moduleVersions(),
	}
	if r.MissingEnv == nil {
		r.MissingEnv = []string{}
	}

	missing := map[string]bool{}
	for _, name := range r.MissingEnv {
		missing[name] = true
	}
	for _, name := range requiredEnv(cc.Provider) {
		r.Environment[name] = !missing[name]
	}
	if !r.Healthy() {
		r.Status = "missing configuration"
	}
	return r
}

func requiredEnv(provider string) []string {
	switch provider {
	case config.ProviderGemini:
		return []string{config.EnvGeminiKey, config.EnvModel}
	case config.ProviderOpenAI:
		return []string{config.EnvAPIKey, config.EnvModel}
	default:
		return []string{config.EnvAPIKey, config.EnvAPIVersion, config.EnvEndpoint, config.EnvModel}
	}
}

// proxyEnvNames returns the sorted names of variables containing "proxy".
func proxyEnvNames(environ []string) []string {
	names := []string{}
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.Contains(strings.ToLower(name), "proxy") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// maskEndpoint keeps the scheme and host, dropping any path or query.
func maskEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	scheme, rest, ok := strings.Cut(endpoint, "://")
	if !ok {
		return endpoint
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host
}

func moduleVersions() map[string]string {
	out := make(map[string]string, len(moduleChecks))
	for _, m := range moduleChecks {
		out[m] = "not linked"
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, dep := range info.Deps {
		if _, tracked := out[dep.Path]; tracked {
			out[dep.Path] = dep.Version
		}
	}
	return out
}
