package config

import (
	"flag"
)

// flagFields maps global flag names to the config field they set.
var flagFields = map[string]string{
	"board":          "board_file",
	"schema":         "schema_file",
	"bolt":           "bolt_file",
	"log-dir":        "log_dir",
	"storage":        "storage",
	"key":            "storage_key",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"celebrate":      "celebrate_command",
	"confirm":        "confirm_delete",
	"column-width":   "column_width",
}

// parseFlags defines the global flags on fs, parses args and records the
// source of every flag that was set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("orbit", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.BoardFile, "board", cfg.BoardFile, "Path to board file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to schema file")
	fs.StringVar(&cfg.BoltFile, "bolt", cfg.BoltFile, "Path to bolt database (storage=bolt)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file|bolt)")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key for the board blob")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")
	fs.StringVar(&cfg.CelebrateCommand, "celebrate", cfg.CelebrateCommand, "Command to run when a task moves to done")
	fs.BoolVar(&cfg.ConfirmDelete, "confirm", cfg.ConfirmDelete, "Ask before deleting a task")
	fs.IntVar(&cfg.ColumnWidth, "column-width", cfg.ColumnWidth, "Board column width in cells")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
