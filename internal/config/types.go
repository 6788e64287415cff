package config

import (
	"github.com/nibzard/orbit/internal/orbitdir"
	"github.com/nibzard/orbit/internal/storage"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	UserFile    string // user config file that was loaded, if any
	ProjectFile string // project config file that was loaded, if any
}

// Default values.
const (
	DefaultStorage       = string(storage.KindFile)
	DefaultStorageKey    = storage.DefaultKey
	DefaultLogDir        = "~/.orbit/logs"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultConfirmDelete = true
	DefaultColumnWidth   = 34
	MinColumnWidth       = 16
)

var (
	DefaultBoardFile  = orbitdir.BoardPath("")
	DefaultSchemaFile = orbitdir.SchemaPath("")
	DefaultBoltFile   = orbitdir.BoltPath("")
)

// Config holds the full configuration for orbit.
type Config struct {
	// Paths
	BoardFile  string `toml:"board_file"`
	SchemaFile string `toml:"schema_file"`
	BoltFile   string `toml:"bolt_file"`
	LogDir     string `toml:"log_dir"`

	// Storage backend: file or bolt
	Storage    string `toml:"storage"`
	StorageKey string `toml:"storage_key"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Board behavior
	CelebrateCommand string `toml:"celebrate_command"`
	ConfirmDelete    bool   `toml:"confirm_delete"`
	ColumnWidth      int    `toml:"column_width"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StorageOptions returns the backend selection for this config.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Kind:     storage.Kind(c.Storage),
		FilePath: c.BoardFile,
		BoltPath: c.BoltFile,
		Key:      c.StorageKey,
	}
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"board_file",
		"schema_file",
		"bolt_file",
		"log_dir",
		"storage",
		"storage_key",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"celebrate_command",
		"confirm_delete",
		"column_width",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BoardFile = DefaultBoardFile
	cfg.SchemaFile = DefaultSchemaFile
	cfg.BoltFile = DefaultBoltFile
	cfg.LogDir = DefaultLogDir
	cfg.Storage = DefaultStorage
	cfg.StorageKey = DefaultStorageKey
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.ConfirmDelete = DefaultConfirmDelete
	cfg.ColumnWidth = DefaultColumnWidth
}
