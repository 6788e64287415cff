package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestSplitNonBlankLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"blank lines dropped", "a\n\nb\n ", []string{"a", "b"}},
		{"trimmed", "  a  \n\tb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"only whitespace", " \n\t\n", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNonBlankLines(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitNonBlankLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/0/status", "[0].status"},
		{"#/2/subtasks/1/done", "[2].subtasks[1].done"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.in); got != tt.want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", " on "} {
		if !BoolFromString(v) {
			t.Errorf("BoolFromString(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		if BoolFromString(v) {
			t.Errorf("BoolFromString(%q) = true, want false", v)
		}
	}
}

func TestHasPathExt(t *testing.T) {
	tests := []struct {
		name    string
		pathext string
		path    string
		want    bool
	}{
		{"exe file", ".COM;.EXE;.BAT;.CMD", `C:\Program Files\app\executable.exe`, true},
		{"bat file", ".COM;.EXE;.BAT;.CMD", `C:\script.bat`, true},
		{"uppercase extension", ".COM;.EXE;.BAT;.CMD", `C:\app.EXE`, true},
		{"no extension", ".COM;.EXE;.BAT;.CMD", `C:\app`, false},
		{"text file", ".COM;.EXE;.BAT;.CMD", `C:\readme.txt`, false},
		{"empty path", ".COM;.EXE;.BAT;.CMD", "", false},
		{"entries without dots", "COM; EXE ;.PS1", `C:\run.ps1`, true},
		{"default when unset", "", `C:\tool.cmd`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PATHEXT", tt.pathext)
			if got := HasPathExt(tt.path); got != tt.want {
				t.Errorf("HasPathExt(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()

	script := filepath.Join(dir, "celebrate.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if got, err := ResolveCommand(script); err != nil || got != script {
		t.Errorf("ResolveCommand(executable) = %q, %v", got, err)
	}

	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveCommand(plain); err == nil {
		t.Error("expected error for non-executable file")
	}

	if _, err := ResolveCommand(dir); err == nil {
		t.Error("expected error for directory")
	}

	if _, err := ResolveCommand(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
