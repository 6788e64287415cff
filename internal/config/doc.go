// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.orbit/orbit.toml or OS-specific config directory)
// 3. Project config file (orbit.toml, .orbit.toml or .orbit/orbit.toml)
// 4. Environment variables (ORBIT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.orbit/orbit.toml (preferred)
// - Windows: %APPDATA%\orbit\orbit.toml
// - macOS: ~/Library/Application Support/orbit/orbit.toml
// - Linux/BSD: $XDG_CONFIG_HOME/orbit/orbit.toml or ~/.config/orbit/orbit.toml
//
// Relative paths are resolved against the project root, which is the
// current working directory.
package config
