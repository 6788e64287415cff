package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nibzard/orbit/internal/utils"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ORBIT_"

type envBinding struct {
	name  string // without prefix
	field string
	apply func(cfg *Config, v string) error
}

func stringEnv(target func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*target(cfg) = v
		return nil
	}
}

func boolEnv(target func(*Config) *bool) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		*target(cfg) = utils.BoolFromString(v)
		return nil
	}
}

var envBindings = []envBinding{
	{"BOARD", "board_file", stringEnv(func(c *Config) *string { return &c.BoardFile })},
	{"SCHEMA", "schema_file", stringEnv(func(c *Config) *string { return &c.SchemaFile })},
	{"BOLT_FILE", "bolt_file", stringEnv(func(c *Config) *string { return &c.BoltFile })},
	{"LOG_DIR", "log_dir", stringEnv(func(c *Config) *string { return &c.LogDir })},
	{"STORAGE", "storage", stringEnv(func(c *Config) *string { return &c.Storage })},
	{"STORAGE_KEY", "storage_key", stringEnv(func(c *Config) *string { return &c.StorageKey })},
	{"LOG_LEVEL", "log_level", stringEnv(func(c *Config) *string { return &c.LogLevel })},
	{"LOG_FORMAT", "log_format", stringEnv(func(c *Config) *string { return &c.LogFormat })},
	{"LOG_TIMESTAMPS", "log_timestamps", boolEnv(func(c *Config) *bool { return &c.LogTimestamps })},
	{"LOG_CALLER", "log_caller", boolEnv(func(c *Config) *bool { return &c.LogCaller })},
	{"CELEBRATE", "celebrate_command", stringEnv(func(c *Config) *string { return &c.CelebrateCommand })},
	{"CONFIRM_DELETE", "confirm_delete", boolEnv(func(c *Config) *bool { return &c.ConfirmDelete })},
	{"COLUMN_WIDTH", "column_width", func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCOLUMN_WIDTH: %w", EnvPrefix, err)
		}
		cfg.ColumnWidth = n
		return nil
	}},
}

// loadFromEnv overrides config from ORBIT_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, b := range envBindings {
		v := os.Getenv(EnvPrefix + b.name)
		if v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return err
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
	return nil
}
