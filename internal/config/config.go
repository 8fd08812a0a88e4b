// Package config loads application configuration from an optional YAML file
// overlaid with environment variables. Precedence: defaults < file < env.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is consulted when GRADEPULSE_CONFIG_FILE is not set.
const DefaultConfigFile = "config.yaml"

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig locates the workbook inputs. DataDir holds one directory per
// class, each containing one .xlsx per subject; LoginFile is the credential
// workbook.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LoginFile string `yaml:"login_file" envconfig:"LOGIN_FILE" validate:"required"`
}

// AuthConfig contains token-signing configuration for the API layer.
type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret" envconfig:"TOKEN_SECRET" validate:"required"`
	TokenTTL    time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
}

// RateLimitConfig contains request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// DevTokenSecret is the baked-in development signing secret. Deployments are
// expected to override it via GRADEPULSE_AUTH_TOKEN_SECRET.
const DevTokenSecret = "gradepulse-dev-secret"

// Default returns the built-in configuration baseline.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:   "Data",
			LoginFile: "Data/LoginData.xlsx",
		},
		Auth: AuthConfig{
			TokenSecret: DevTokenSecret,
			TokenTTL:    12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     100,
			Burst:   50,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file if
// present, then GRADEPULSE_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("GRADEPULSE_CONFIG_FILE")
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("GRADEPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive when rate limiting is enabled")
	}
	return nil
}
