package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePaths expands and absolutizes every path setting against root.
func resolvePaths(cfg *Config, root string) {
	for _, p := range []*string{&cfg.BoardFile, &cfg.SchemaFile, &cfg.BoltFile, &cfg.LogDir} {
		*p = resolvePath(*p, root)
	}
}

// resolvePath expands ~ and environment variables in p, then joins a
// relative result onto root. An empty path stays empty.
func resolvePath(p, root string) string {
	p = expandPath(strings.TrimSpace(p))
	if p == "" || filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

// expandPath expands a leading ~ (~/ or ~\ on Windows) and $VAR references.
// On Windows %VAR% references are expanded as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}

	rest, ok := trimHome(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// trimHome reports whether p starts at the home directory and returns the
// remainder.
func trimHome(p string) (string, bool) {
	switch {
	case p == "~":
		return "", true
	case strings.HasPrefix(p, "~/"):
		return p[2:], true
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		return p[2:], true
	}
	return "", false
}

// expandPercentVars replaces %NAME% with the variable's value. Unknown
// names and a lone % are kept verbatim.
func expandPercentVars(p string) string {
	if strings.Count(p, "%") < 2 {
		return p
	}
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		name := p[start+1 : end]
		b.WriteString(p[:start])
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
			p = p[end+1:]
			continue
		}
		// Keep the opening % and rescan from the closing one.
		b.WriteString(p[start:end])
		p = p[end:]
	}
	b.WriteString(p)
	return b.String()
}
