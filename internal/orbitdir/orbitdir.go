// Package orbitdir provides constants and path helpers for the .orbit state directory.
package orbitdir

import "path/filepath"

const (
	// Dir is the name of the orbit state directory.
	Dir = ".orbit"

	// DefaultBoardFile is the default board file name (inside .orbit).
	DefaultBoardFile = "board.json"

	// DefaultSchemaFile is the default schema file name (inside .orbit).
	DefaultSchemaFile = "board.schema.json"

	// DefaultConfigFile is the default config file name (inside .orbit).
	DefaultConfigFile = "orbit.toml"

	// DefaultBoltFile is the bolt database used by the bolt storage backend.
	DefaultBoltFile = "board.db"

	// LogsDir is the default log directory name (inside .orbit).
	LogsDir = "logs"
)

// BoardPath returns the full path to the board file within a work directory.
func BoardPath(workDir string) string {
	return joinPath(workDir, DefaultBoardFile)
}

// SchemaPath returns the full path to the schema file within a work directory.
func SchemaPath(workDir string) string {
	return joinPath(workDir, DefaultSchemaFile)
}

// ConfigPath returns the full path to the config file within a work directory.
func ConfigPath(workDir string) string {
	return joinPath(workDir, DefaultConfigFile)
}

// BoltPath returns the full path to the bolt database within a work directory.
func BoltPath(workDir string) string {
	return joinPath(workDir, DefaultBoltFile)
}

// LogsPath returns the default log directory within a work directory.
func LogsPath(workDir string) string {
	return joinPath(workDir, LogsDir)
}

// DirPath returns the full path to the .orbit directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
