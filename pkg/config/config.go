package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is read when indexer.api_key is not set in the file.
const APIKeyEnv = "ALCHEMY_API_KEY"

// Config represents the dashboard service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Indexer   IndexerConfig   `yaml:"indexer"`
	Query     QueryConfig     `yaml:"query"`
	Transfers TransfersConfig `yaml:"transfers"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host" default:"0.0.0.0"`
	Port           int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"30s" validate:"gt=0"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// IndexerConfig contains settings for the chain indexing API.
// An empty APIKey disables the token and transaction queries.
type IndexerConfig struct {
	APIKey           string        `yaml:"api_key"`
	EndpointTemplate string        `yaml:"endpoint_template" default:"https://{network}.g.alchemy.com/v2/{apiKey}" validate:"required"`
	HTTPTimeout      time.Duration `yaml:"http_timeout" default:"20s"`
}

// QueryConfig contains settings for the query result cache
type QueryConfig struct {
	FreshFor      time.Duration `yaml:"fresh_for" default:"30s" validate:"gte=0"`
	Store         string        `yaml:"store" default:"memory" validate:"oneof=memory redis"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Store redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTTL      time.Duration `yaml:"redis_ttl" default:"10m"`
}

// TransfersConfig contains transaction query settings
type TransfersConfig struct {
	// ResolveReceiptStatus looks up receipts to flag reverted transactions.
	// It costs one extra indexer call per displayed transaction.
	ResolveReceiptStatus bool `yaml:"resolve_receipt_status"`
}

// TracingConfig contains OpenTelemetry settings. Tracing is off without an endpoint.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name" default:"wallet-dashboard"`
	Insecure    bool   `yaml:"insecure"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" default:"30s"`
}

// Load reads configuration from configPath. An empty path yields defaults.
// ${VAR} references in the file are expanded from the environment, after
// loading a .env file from the working directory if one exists.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set config defaults: %w", err)
	}

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if strings.TrimSpace(cfg.Indexer.APIKey) == "" {
		cfg.Indexer.APIKey = os.Getenv(APIKeyEnv)
	}
	cfg.Indexer.APIKey = strings.TrimSpace(cfg.Indexer.APIKey)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks struct constraints on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Address returns the host:port the HTTP server listens on.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
