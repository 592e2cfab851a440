package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-jobdoctor/internal/utils"
)

// Config captures the settings required to boot the heuristic service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Heuristics HeuristicsConfig `yaml:"heuristics"`
}

// ServerConfig controls gRPC and metrics listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// HeuristicsConfig points at the optional threshold pack.
type HeuristicsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("JOBDOCTOR_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return utils.NewAppError("config.validate", "server.address is required", nil)
	}
	if c.Server.GracefulTimeout <= 0 {
		return utils.NewAppError("config.validate", "server.gracefulTimeout must be positive", nil)
	}
	if _, err := utils.ParseLevel(c.Logging.Level); err != nil {
		return utils.NewAppError("config.validate", "logging.level", err)
	}
	if c.Heuristics.Watch && c.Heuristics.Path == "" {
		return utils.NewAppError("config.validate", "heuristics.watch requires heuristics.path", nil)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2113",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Heuristics: HeuristicsConfig{
			Path:  "configs/heuristics.yaml",
			Watch: false,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JOBDOCTOR_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v, ok := os.LookupEnv("JOBDOCTOR_METRICS_ADDRESS"); ok {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("JOBDOCTOR_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("JOBDOCTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("JOBDOCTOR_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	if v, ok := os.LookupEnv("JOBDOCTOR_HEURISTICS_PATH"); ok {
		cfg.Heuristics.Path = v
	}
	if v := os.Getenv("JOBDOCTOR_HEURISTICS_WATCH"); v != "" {
		cfg.Heuristics.Watch = strings.EqualFold(v, "true") || v == "1"
	}
}
