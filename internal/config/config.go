package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides config lookup.
const EnvConfigPath = "BULLDOGGY_CONFIG"

var defaultLocations = []string{"bulldoggy.yaml", "bulldoggy.yml", "config.yaml"}

// Config represents the bulldoggy.yaml configuration structure.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Version   string            `yaml:"version"`
	SecretKey string            `yaml:"secret_key"`
	Users     map[string]string `yaml:"users"`

	Server struct {
		Address       string `yaml:"address"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"server"`

	Database struct {
		Driver         string `yaml:"driver"`
		URL            string `yaml:"url"`
		MaxConnections int    `yaml:"max_connections"`
	} `yaml:"database"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads and validates the configuration at path. An empty path falls
// back to FindPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindPath()
		if path == "" {
			return nil, fmt.Errorf("no configuration file found (looked for %s)", strings.Join(defaultLocations, ", "))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML and applies defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8000"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.URL == "" && c.Database.Driver == "sqlite" {
		c.Database.URL = "reminder_db.sqlite"
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.SecretKey == "" {
		errs = append(errs, ValidationError{Field: "secret_key", Message: "is required"})
	}
	if len(c.Users) == 0 {
		errs = append(errs, ValidationError{Field: "users", Message: "at least one user is required"})
	}
	for name := range c.Users {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{Field: "users", Message: "usernames must not be blank"})
			break
		}
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, ValidationError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)})
	}
	if c.Database.URL == "" {
		errs = append(errs, ValidationError{Field: "database.url", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FindPath returns the config path from the environment or the first
// default location that exists, or "" when nothing is found.
func FindPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	for _, loc := range defaultLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Save writes cfg as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = defaultLocations[0]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds the secret key and passwords.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidationError represents a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("config validation failed: %s", strings.Join(messages, "; "))
}
