package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// PlaceholderAPIKey is the value shipped in sample env files. It is rejected like an empty key.
	PlaceholderAPIKey = "YOUR_GOOGLE_API_KEY_HERE"

	SearchProviderGoogle     = "google"
	SearchProviderDuckDuckGo = "duckduckgo"
)

// Viper keys
const (
	KeyAPIKey            = "google_api_key"
	KeyGeminiAPIKey      = "gemini_api_key"
	KeyModel             = "shelfie_model"
	KeyPort              = "port"
	KeyEnv               = "env"
	KeyAllowedOrigin     = "allowed_origin"
	KeySearchProvider    = "search_provider"
	KeyRecommendTimeout  = "recommend_timeout"
	KeySearchMinInterval = "search_min_interval"
)

// ErrConfiguration is returned when the process cannot be configured to serve requests.
var ErrConfiguration = errors.New("configuration error")

// Config holds everything resolved at process start
type Config struct {
	APIKey            string
	Model             string
	Port              string
	Env               string
	AllowedOrigin     string
	SearchProvider    string
	RecommendTimeout  time.Duration
	SearchMinInterval time.Duration
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadEnvFiles loads dotenv files into the process environment. Missing files are skipped.
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			continue
		}
		log.Printf("[INFO] Loaded env file %s", p)
	}
}

// New returns a viper instance with Shelfie defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyModel, "gemini-2.5-flash")
	v.SetDefault(KeyPort, "8000")
	v.SetDefault(KeyEnv, "")
	v.SetDefault(KeyAllowedOrigin, "http://localhost:3000")
	v.SetDefault(KeySearchProvider, SearchProviderGoogle)
	v.SetDefault(KeyRecommendTimeout, 60*time.Second)
	v.SetDefault(KeySearchMinInterval, 500*time.Millisecond)

	// No default: the credential must come from the environment
	_ = v.BindEnv(KeyAPIKey, "GOOGLE_API_KEY")
	_ = v.BindEnv(KeyGeminiAPIKey, "GEMINI_API_KEY")
	return v
}

// Load resolves and validates the configuration from v
func Load(v *viper.Viper) (*Config, error) {
	apiKey := strings.TrimSpace(v.GetString(KeyAPIKey))
	if apiKey == "" || apiKey == PlaceholderAPIKey {
		if alt := strings.TrimSpace(v.GetString(KeyGeminiAPIKey)); alt != "" {
			apiKey = alt
		}
	}

	cfg := &Config{
		APIKey:            apiKey,
		Model:             strings.TrimSpace(v.GetString(KeyModel)),
		Port:              v.GetString(KeyPort),
		Env:               v.GetString(KeyEnv),
		AllowedOrigin:     strings.TrimRight(strings.TrimSpace(v.GetString(KeyAllowedOrigin)), "/"),
		SearchProvider:    strings.ToLower(strings.TrimSpace(v.GetString(KeySearchProvider))),
		RecommendTimeout:  v.GetDuration(KeyRecommendTimeout),
		SearchMinInterval: v.GetDuration(KeySearchMinInterval),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can serve requests
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APIKey == PlaceholderAPIKey {
		return fmt.Errorf("%w: GOOGLE_API_KEY (or GEMINI_API_KEY) must be set to a real key", ErrConfiguration)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model id is empty", ErrConfiguration)
	}
	switch c.SearchProvider {
	case SearchProviderGoogle, SearchProviderDuckDuckGo:
	default:
		return fmt.Errorf("%w: unknown search provider %q", ErrConfiguration, c.SearchProvider)
	}
	if c.RecommendTimeout <= 0 {
		return fmt.Errorf("%w: recommend timeout must be positive, got %s", ErrConfiguration, c.RecommendTimeout)
	}
	if c.SearchMinInterval < 0 {
		return fmt.Errorf("%w: search min interval must not be negative", ErrConfiguration)
	}
	if c.AllowedOrigin == "" {
		return fmt.Errorf("%w: allowed origin is empty", ErrConfiguration)
	}
	return nil
}
