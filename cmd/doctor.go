package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nibzard/orbit/internal/config"
	"github.com/nibzard/orbit/internal/logging"
	"github.com/nibzard/orbit/internal/orbitdir"
	"github.com/nibzard/orbit/internal/storage"
	"github.com/nibzard/orbit/internal/task"
	"github.com/nibzard/orbit/internal/utils"
)

type initFile struct {
	path string
	data []byte
}

// initCommand writes an example config, an empty board and the schema.
// Existing files are kept unless -force is given.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("orbit init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite existing files")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	emptyBoard, err := task.Encode(nil)
	if err != nil {
		return err
	}
	files := []initFile{
		{orbitdir.ConfigPath(cfg.ProjectRoot), []byte(config.ExampleConfig())},
		{cfg.SchemaFile, task.BundledSchema()},
	}
	if storage.Kind(cfg.Storage) != storage.KindBolt {
		files = append(files, initFile{cfg.BoardFile, emptyBoard})
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !*force {
			fmt.Fprintf(stdout, "  ⚠️  %s exists, skipped\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Fprintf(stdout, "  ✅ wrote %s\n", f.path)
	}
	return nil
}

// doctorCommand checks config, storage, the board payload and the log directory.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("orbit doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Orbit Doctor")
	fmt.Fprintln(stdout, "============")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintf(stdout, "Project root: %s\n", cfg.ProjectRoot)
	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file:  %s\n", file)
	} else {
		fmt.Fprintln(stdout, "Config file:  (none, using defaults)")
	}
	if *verbose {
		printSources(cws)
	}
	fmt.Fprintln(stdout)

	// Board payload
	opts := cfg.StorageOptions()
	fmt.Fprintf(stdout, "Storage: %s\n", opts.Kind)
	switch opts.Kind {
	case storage.KindBolt:
		fmt.Fprintf(stdout, "  Database: %s (key %q)\n", opts.BoltPath, opts.Key)
	default:
		fmt.Fprintf(stdout, "  Board file: %s\n", opts.FilePath)
	}
	if !checkBoard(opts, *verbose) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Schema file: %s\n", cfg.SchemaFile)
	if info, err := os.Stat(cfg.SchemaFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (run orbit init; validation uses the bundled schema)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Celebrate command:")
	if strings.TrimSpace(cfg.CelebrateCommand) == "" {
		fmt.Fprintln(stdout, "  ⚠️  Not configured (banner only)")
	} else if resolved, err := utils.ResolveCommand(cfg.CelebrateCommand); err != nil {
		fmt.Fprintf(stdout, "  ❌ %s: %v\n", cfg.CelebrateCommand, err)
		allOK = false
	} else {
		fmt.Fprintf(stdout, "  ✅ OK (%s)\n", resolved)
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. Orbit may start with an empty board.")
	return fmt.Errorf("doctor checks failed")
}

// checkBoard loads the raw payload and validates it without the fail-open
// fallback the store applies.
func checkBoard(opts storage.Options, verbose bool) bool {
	backend, err := storage.Open(opts)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Open error: %v\n", err)
		return false
	}
	defer backend.Close()

	data, err := backend.Load()
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(stdout, "  ⚠️  No board stored yet (starts empty)")
		return true
	}
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Load error: %v\n", err)
		return false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		fmt.Fprintln(stdout, "  ⚠️  Board is empty")
		return true
	}

	result := task.Validate(data)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintln(stdout, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(stdout, "  ✅ Valid")

	if verbose {
		tasks, _ := task.Decode(data)
		fmt.Fprintf(stdout, "  Tasks: %d\n", len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(stdout, "    - [%s] %s: %s\n", t.Status, shortID(t.ID), t.Title)
		}
	}
	return true
}

func printSources(cws *config.ConfigWithSources) {
	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	fmt.Fprintln(stdout, "Sources:")
	for _, field := range fields {
		fmt.Fprintf(stdout, "  %-18s %s\n", field, cws.Sources[field])
	}
}

// tailCommand prints the latest session log, or lists sessions with -list.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("orbit tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		sessions, err := logging.ListSessions(logDir)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(stdout, "No log files found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(stdout, "%s  %s  %d bytes\n", s.ModTime.Format("2006-01-02 15:04:05"), s.RunID, s.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}
