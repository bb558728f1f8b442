package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Defaults DefaultsConfig `toml:"defaults"`
	Limits   LimitsConfig   `toml:"limits"`
}

// ServerConfig contains HTTP server settings and the URLs used to build
// OAuth redirect targets.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	BaseURL     string `toml:"base_url"`
	FrontendURL string `toml:"frontend_url"`
	StaticDir   string `toml:"static_dir"`
	CORSOrigin  string `toml:"cors_origin"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AuthConfig contains settings for the OAuth state token signer.
type AuthConfig struct {
	StateSecret     string `toml:"state_secret"`
	StateTTLMinutes int    `toml:"state_ttl_minutes"`
}

// DefaultsConfig contains operator-provided fallback API keys, used when a
// user has not stored their own credentials.
type DefaultsConfig struct {
	GeminiAPIKey       string `toml:"gemini_api_key"`
	YouTubeAPIKey      string `toml:"youtube_api_key"`
	GoogleClientID     string `toml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret"`
}

// LimitsConfig contains rate limiting settings for the /api/ surface.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Environment overrides are applied after parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
//
// Environment overrides are applied after parsing.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays environment variables onto the config. The server URLs and
// default keys are deployment concerns, so the environment wins over the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.Server.FrontendURL = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigin = v
	}
	if v := os.Getenv("STATE_SECRET"); v != "" {
		c.Auth.StateSecret = v
	}
	if v := os.Getenv("DEFAULT_GEMINI_API_KEY"); v != "" {
		c.Defaults.GeminiAPIKey = v
	}
	if v := os.Getenv("DEFAULT_YOUTUBE_API_KEY"); v != "" {
		c.Defaults.YouTubeAPIKey = v
	}
	if v := os.Getenv("DEFAULT_GOOGLE_CLIENT_ID"); v != "" {
		c.Defaults.GoogleClientID = v
	}
	if v := os.Getenv("DEFAULT_GOOGLE_CLIENT_SECRET"); v != "" {
		c.Defaults.GoogleClientSecret = v
	}
}

// Addr returns the host:port listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
