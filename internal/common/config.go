package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	HTTP        HTTPConfig    `toml:"http"`
	Vault       VaultConfig   `toml:"vault"`
	Updates     UpdatesConfig `toml:"updates"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// HTTPConfig contains defaults for the outbound HTTP client
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"` // Default request timeout, overridable per call
}

// VaultConfig selects the credential storage backend
type VaultConfig struct {
	Backend     string `toml:"backend"`      // "keyring" (OS keychain) or "file" (local badger store)
	ServiceName string `toml:"service_name"` // Keychain service namespace
	Path        string `toml:"path"`         // Database directory for the file backend
}

// UpdatesConfig controls the background update checker
type UpdatesConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron expression with seconds field, e.g. "0 0 9 * * *"
	Owner    string `toml:"owner"`    // GitHub repository owner
	Repo     string `toml:"repo"`     // GitHub repository name
	Token    string `toml:"token"`    // Optional token for private repositories
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in nimbus.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8420,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
		Vault: VaultConfig{
			Backend:     "keyring",
			ServiceName: "nimbus-reports",
			Path:        "./data/vault",
		},
		Updates: UpdatesConfig{
			Enabled:  false,
			Schedule: "0 0 9 * * *", // Daily at 9am when enabled
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NIMBUS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("NIMBUS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NIMBUS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("NIMBUS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("NIMBUS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if timeout := os.Getenv("NIMBUS_HTTP_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			config.HTTP.TimeoutSeconds = t
		}
	}

	if backend := os.Getenv("NIMBUS_VAULT_BACKEND"); backend != "" {
		config.Vault.Backend = backend
	}
	if path := os.Getenv("NIMBUS_VAULT_PATH"); path != "" {
		config.Vault.Path = path
	}

	if token := os.Getenv("NIMBUS_UPDATES_TOKEN"); token != "" {
		config.Updates.Token = token
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration values that would otherwise fail at first use
func (c *Config) Validate() error {
	switch c.Vault.Backend {
	case "keyring", "file":
	default:
		return fmt.Errorf("invalid vault backend %q: must be \"keyring\" or \"file\"", c.Vault.Backend)
	}

	if c.Updates.Enabled {
		if c.Updates.Owner == "" || c.Updates.Repo == "" {
			return fmt.Errorf("updates.enabled requires updates.owner and updates.repo")
		}
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}

	return nil
}
