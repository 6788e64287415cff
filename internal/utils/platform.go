package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// defaultPathExt is used when PATHEXT is unset.
const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// ResolveCommand finds the executable for a hook command. Bare names are
// looked up on PATH; paths must exist, be regular files and be executable.
func ResolveCommand(command string) (string, error) {
	if !strings.ContainsRune(command, os.PathSeparator) && !strings.Contains(command, "/") {
		return exec.LookPath(command)
	}
	info, err := os.Stat(command)
	if err != nil {
		return "", err
	}
	notFound := &exec.Error{Name: command, Err: exec.ErrNotFound}
	switch {
	case info.IsDir():
		return "", notFound
	case runtime.GOOS == "windows":
		if !HasPathExt(command) {
			return "", notFound
		}
	case info.Mode().Perm()&0111 == 0:
		return "", notFound
	}
	return command, nil
}

// HasPathExt reports whether path ends in one of the PATHEXT extensions.
// Entries may omit the leading dot; matching ignores case.
func HasPathExt(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = defaultPathExt
	}
	for _, candidate := range strings.Split(pathext, ";") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}
