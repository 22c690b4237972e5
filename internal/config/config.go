package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is used when neither the config file nor the environment names a service
const DefaultAPIURL = "http://localhost:8001"

// Config represents the complete docuflow client configuration
type Config struct {
	APIURL    string        `yaml:"api_url"`
	OutputDir string        `yaml:"output_dir"`
	Session   SessionConfig `yaml:"session"`
	Logging   LoggingConfig `yaml:"logging"`
	Serve     ServeConfig   `yaml:"serve"`
}

// SessionConfig selects where the credential is persisted
type SessionConfig struct {
	Backend string `yaml:"backend"` // "file", "sqlite" or "memory"
	Path    string `yaml:"path"`    // empty means the per-user default location
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServeConfig holds the local API configuration
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing else is specified
func Default() *Config {
	return &Config{
		APIURL:    DefaultAPIURL,
		OutputDir: ".",
		Session: SessionConfig{
			Backend: "file",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Serve: ServeConfig{
			Addr: ":8888",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	// VITE_API_URL is what the browser build reads; honour it so one .env serves both.
	if v := os.Getenv("VITE_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("DOCUFLOW_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("DOCUFLOW_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("DOCUFLOW_SESSION_BACKEND"); v != "" {
		c.Session.Backend = v
	}
	if v := os.Getenv("DOCUFLOW_SESSION_PATH"); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv("DOCUFLOW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DOCUFLOW_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("DOCUFLOW_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("DOCUFLOW_SERVE_ADDR"); v != "" {
		c.Serve.Addr = v
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q must use http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q has no host", c.APIURL)
	}

	switch c.Session.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("session.backend must be 'file', 'sqlite' or 'memory', got %q", c.Session.Backend)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", c.Logging.Format)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	return nil
}
