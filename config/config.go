// Package config loads client settings: defaults first, then an optional
// YAML file, then environment variables. Later sources win.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIBaseURL      = "http://localhost:8000/api"
	DefaultRefreshInterval = 30 * time.Second
	DefaultPollInterval    = 2 * time.Second
	DefaultLogLevel        = "info"
)

// Config is the full client configuration.
type Config struct {
	// APIBaseURL is the platform API root, including the /api prefix.
	APIBaseURL string `yaml:"api_base_url"`
	// RefreshInterval is the token refresh cadence.
	RefreshInterval Duration `yaml:"refresh_interval"`
	// PollInterval is the view refresh cadence.
	PollInterval Duration `yaml:"poll_interval"`
	// CredentialFile overrides where the credential record is stored.
	// Empty selects the per-user default location.
	CredentialFile string `yaml:"credential_file"`
	// RedisAddr, when set, stores the credential in Redis instead of a file.
	RedisAddr string `yaml:"redis_addr"`
	LogLevel  string `yaml:"log_level"`
}

// Duration parses YAML values given either as Go duration strings ("30s")
// or as integer seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var seconds int64
	if err := node.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string or integer seconds")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL:      DefaultAPIBaseURL,
		RefreshInterval: Duration(DefaultRefreshInterval),
		PollInterval:    Duration(DefaultPollInterval),
		LogLevel:        DefaultLogLevel,
	}
}

// Load builds the configuration. path may be empty (no file); a named file
// that is missing or malformed is an error, not a silent fallback.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("config: api_base_url must be set")
	}
	if cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("config: refresh_interval must be positive")
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("config: poll_interval must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("BRICKBID_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("BRICKBID_CREDENTIAL_FILE"); v != "" {
		cfg.CredentialFile = v
	}
	if v := os.Getenv("BRICKBID_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("BRICKBID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	for _, entry := range []struct {
		key  string
		dest *Duration
	}{
		{"BRICKBID_REFRESH_INTERVAL", &cfg.RefreshInterval},
		{"BRICKBID_POLL_INTERVAL", &cfg.PollInterval},
	} {
		v := os.Getenv(entry.key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s: %w", entry.key, err)
		}
		*entry.dest = Duration(d)
	}
	return nil
}
