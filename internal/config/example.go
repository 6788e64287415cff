package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Orbit configuration file
# Values can be overridden by ORBIT_* environment variables or CLI flags

# Board file (relative to project root)
board_file = ".orbit/board.json"

# Schema file written by "orbit init" (validation uses the bundled schema)
schema_file = ".orbit/board.schema.json"

# Storage backend: "file" stores board_file as plain JSON,
# "bolt" stores the same JSON under storage_key in bolt_file
storage = "file"
bolt_file = ".orbit/board.db"
storage_key = "orbit-tasks-2026"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.orbit/logs"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Command run in the background when a task moves to done.
# Receives the task id, status and title as arguments and the task JSON on stdin.
# celebrate_command = "/path/to/confetti.sh"

# Ask "Vaporize this task?" before deleting
confirm_delete = true

# Board column width in terminal cells
column_width = 34
`
}
