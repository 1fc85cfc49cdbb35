// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env`
// file when present), loads them into structured Go types, applies
// defaults and validates the values the server cannot start without.
//
// Provider API keys are deliberately not required: a missing key
// surfaces as an upstream call failure at request time.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into
	// the process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every service variable carries.
//
// Nesting uses a double underscore, e.g.
//
//	KWCLUSTER_SERVER__PORT          -> server.port
//	KWCLUSTER_PROVIDERS__SEARCH__API_KEY -> providers.search.api_key
const EnvPrefix = "KWCLUSTER_"

// legacyKeys maps the unprefixed variable names the frontend deployment
// already provisions onto their koanf keys.
var legacyKeys = map[string]string{
	"SERPER_API_KEY": "providers.search.api_key",
	"GEMINI_API_KEY": "providers.generation.api_key",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Providers     ProvidersConfig      `koanf:"providers"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// ProvidersConfig holds credentials and endpoints of the two upstream providers.
type ProvidersConfig struct {
	Search     SearchProviderConfig     `koanf:"search"`
	Generation GenerationProviderConfig `koanf:"generation"`
}

// SearchProviderConfig configures the Serper client.
type SearchProviderConfig struct {
	APIKey   string `koanf:"api_key"`
	Endpoint string `koanf:"endpoint" validate:"omitempty,url"`
}

// GenerationProviderConfig configures the Gemini client.
//
// BaseURL is the API root; the model path and the `:generateContent`
// suffix are appended by the client.
type GenerationProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Model   string `koanf:"model"`
}

const (
	DefaultSearchEndpoint    = "https://google.serper.dev/search"
	DefaultGenerationBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGenerationModel   = "gemini-1.5-flash-latest"
	DefaultShutdownTimeout   = 30
)

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, applies defaults and validates the result.
//
// Legacy unprefixed keys are loaded first so prefixed ones win.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", func(s string) string {
		// Returning "" makes koanf skip the variable.
		return legacyKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, v string) (string, interface{}) {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")

		// List values are comma separated.
		if strings.HasSuffix(key, "cors_allowed_origins") {
			return key, splitList(v)
		}

		return key, v
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary block,
	// so logs and traces agree on naming.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = c.Observability.GetLogLevel()
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "json"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Providers.Search.Endpoint == "" {
		c.Providers.Search.Endpoint = DefaultSearchEndpoint
	}
	if c.Providers.Generation.BaseURL == "" {
		c.Providers.Generation.BaseURL = DefaultGenerationBaseURL
	}
	if c.Providers.Generation.Model == "" {
		c.Providers.Generation.Model = DefaultGenerationModel
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
