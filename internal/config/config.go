// Package config resolves generator settings from defaults, a YAML file and
// the environment. Command-line flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/internal/codegen"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file read when none is given
const DefaultFile = "crudgen.yaml"

// MySQLConfig holds the connection settings used by the pull command
type MySQLConfig struct {
	Host     string `yaml:"host,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	Port     string `yaml:"port,omitempty"`
}

// Config is the resolved generator configuration
type Config struct {
	OutputDir     string      `yaml:"output,omitempty"`
	Force         bool        `yaml:"force,omitempty"`
	DryRun        bool        `yaml:"dry_run,omitempty"`
	GuessHasMany  bool        `yaml:"guess_has_many"`
	HasManyTarget string      `yaml:"has_many_target,omitempty"`
	Migration     bool        `yaml:"migration,omitempty"`
	SeedRows      int         `yaml:"seed_rows,omitempty"`
	Seed          int64       `yaml:"seed,omitempty"`
	LogLevel      string      `yaml:"log_level,omitempty"`
	MySQL         MySQLConfig `yaml:"mysql,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		OutputDir:    "generated",
		GuessHasMany: true,
		Seed:         1,
		MySQL: MySQLConfig{
			Host: "localhost",
			User: "root",
			Port: "3306",
		},
	}
}

// Load builds a configuration from the defaults, the YAML file at path when
// it exists, and CRUDGEN_* / MYSQL_* environment variables. A missing file is
// not an error; an unreadable or invalid one is.
func Load(path string, logger *logrus.Logger) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debugf("No config file %s found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := cfg.decode(data); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			logger.Infof("Loaded configuration from %s", path)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides settings from environment variables that are set
func (c *Config) ApplyEnv() {
	c.OutputDir = getEnvOrDefault("CRUDGEN_OUTPUT", c.OutputDir)
	c.Force = GetEnvBool("CRUDGEN_FORCE", c.Force)
	c.DryRun = GetEnvBool("CRUDGEN_DRY_RUN", c.DryRun)
	c.GuessHasMany = GetEnvBool("CRUDGEN_GUESS_HAS_MANY", c.GuessHasMany)
	c.HasManyTarget = getEnvOrDefault("CRUDGEN_HAS_MANY_TARGET", c.HasManyTarget)
	c.Migration = GetEnvBool("CRUDGEN_MIGRATION", c.Migration)
	c.SeedRows = GetEnvInt("CRUDGEN_SEED_ROWS", c.SeedRows)
	c.Seed = int64(GetEnvInt("CRUDGEN_SEED", int(c.Seed)))
	c.LogLevel = getEnvOrDefault("CRUDGEN_LOG_LEVEL", c.LogLevel)

	c.MySQL.Host = getEnvOrDefault("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.User = getEnvOrDefault("MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = getEnvOrDefault("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.Database = getEnvOrDefault("MYSQL_DATABASE", c.MySQL.Database)
	c.MySQL.Port = getEnvOrDefault("MYSQL_PORT", c.MySQL.Port)
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output directory must not be empty")
	}
	if c.SeedRows < 0 {
		return fmt.Errorf("seed_rows must not be negative, got %d", c.SeedRows)
	}
	if _, err := strconv.Atoi(c.MySQL.Port); c.MySQL.Port != "" && err != nil {
		return fmt.Errorf("invalid MySQL port %q", c.MySQL.Port)
	}
	return nil
}

// Options returns the code generation options
func (c *Config) Options() codegen.Options {
	return codegen.Options{
		GuessHasMany:  c.GuessHasMany,
		HasManyTarget: c.HasManyTarget,
		Migration:     c.Migration,
		SeedRows:      c.SeedRows,
	}
}

// getEnvOrDefault gets an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer value from environment variable
func GetEnvInt(varName string, defaultValue int) int {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// GetEnvBool gets a boolean value from environment variable
func GetEnvBool(varName string, defaultValue bool) bool {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}
