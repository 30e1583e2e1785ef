package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	ServerHost                string
	ServerPort                int
}

const configFileENV = "CONFIG_FILE"

// New loads configuration from an optional YAML config file and the
// environment. Environment variables override file values; keys are the
// snake_case forms of the struct fields (e.g. DATABASE_FILE_PATH /
// database_file_path).
func New() (*Config, error) {
	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = "./config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseDebug:             k.Bool("database_debug"),
		DatabaseFilePath:          k.String("database_file_path"),
		ServerHost:                "0.0.0.0",
		ServerPort:                8000,
	}

	if v := k.Int("database_busy_timeout_ms"); v > 0 {
		cfg.DatabaseBusyTimeout = time.Duration(v) * time.Millisecond
	}
	if v := k.Int("database_connect_retry_count"); v > 0 {
		cfg.DatabaseConnectRetryCount = v
	}
	if v := k.Int("database_connect_retry_delay_ms"); v > 0 {
		cfg.DatabaseConnectRetryDelay = time.Duration(v) * time.Millisecond
	}
	if v := k.String("server_host"); v != "" {
		cfg.ServerHost = v
	}
	if v := k.Int("server_port"); v > 0 {
		cfg.ServerPort = v
	}

	if cfg.DatabaseFilePath == "" {
		return nil, errors.New("missing required config: set the DATABASE_FILE_PATH environment variable or the database_file_path key in the config file")
	}

	return cfg, nil
}

// NewForTest returns a config backed by an in-memory database, suitable for
// tests that need a full Config without touching the environment.
func NewForTest() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: 10 * time.Millisecond,
		DatabaseFilePath:          ":memory:",
		ServerHost:                "127.0.0.1",
		ServerPort:                0,
	}
}
