// Package cmd implements the CLI command structure for orbit.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/orbit/internal/board"
	"github.com/nibzard/orbit/internal/config"
	"github.com/nibzard/orbit/internal/hooks"
	"github.com/nibzard/orbit/internal/logging"
	"github.com/nibzard/orbit/internal/storage"
	"github.com/nibzard/orbit/internal/store"
	"github.com/nibzard/orbit/internal/task"
	"github.com/nibzard/orbit/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the orbit CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("orbit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No subcommand opens the board
	subcommand := "board"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "board":
		return withApp(ctx, cws.Config, remainingArgs, boardCommand)
	case "add", "new":
		return withApp(ctx, cws.Config, remainingArgs, addCommand)
	case "edit":
		return withApp(ctx, cws.Config, remainingArgs, editCommand)
	case "rm", "delete":
		return withApp(ctx, cws.Config, remainingArgs, rmCommand)
	case "mv", "move":
		return withApp(ctx, cws.Config, remainingArgs, mvCommand)
	case "toggle":
		return withApp(ctx, cws.Config, remainingArgs, toggleCommand)
	case "ls", "list":
		return withApp(ctx, cws.Config, remainingArgs, lsCommand)
	case "show":
		return withApp(ctx, cws.Config, remainingArgs, showCommand)
	case "stats":
		return withApp(ctx, cws.Config, remainingArgs, statsCommand)
	case "search":
		return withApp(ctx, cws.Config, remainingArgs, searchCommand)
	case "export":
		return withApp(ctx, cws.Config, remainingArgs, exportCommand)
	case "init":
		return initCommand(cws.Config, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cws.Config, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app holds the open board for one command.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	session *logging.Session
	backend storage.Backend
	store   *store.Store
	board   *board.Dispatcher
}

type commandFunc func(ctx context.Context, a *app, args []string) error

// withApp opens the configured board, runs fn and closes everything again.
func withApp(ctx context.Context, cfg *config.Config, args []string, fn commandFunc) error {
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a, args)
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	logOpts := logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	}
	session, err := logging.NewSession(cfg.LogDir, cfg.ProjectRoot)
	if err == nil {
		a.session = session
		a.logger, err = logging.New(session.Writer(), logOpts)
	} else {
		// Without a log file only warnings reach the terminal.
		logOpts.Level = "warn"
		a.logger, err = logging.New(stderr, logOpts)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	backend, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	a.backend = backend
	a.store = store.Open(backend, a.logger)
	a.board = board.New(a.store, a.logger)
	a.board.Confirm = a.confirm
	a.board.Celebrate = a.celebrate(ctx)

	a.logger.Debug("board opened", "storage", cfg.Storage, "tasks", a.store.Len())
	return a, nil
}

// Close releases the storage backend and the session log.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close storage", "err", err)
		}
	} else if a.backend != nil {
		_ = a.backend.Close()
	}
	if a.session != nil {
		_ = a.session.Close()
	}
}

func (a *app) hookOptions() hooks.Options {
	return hooks.Options{
		Command: a.cfg.CelebrateCommand,
		WorkDir: a.cfg.ProjectRoot,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// celebrate prints the banner and runs the hook to completion, since the
// process exits as soon as the command returns.
func (a *app) celebrate(ctx context.Context) board.CelebrateFunc {
	return func(t task.Task) {
		fmt.Fprintf(stdout, "✦ Done! %s is complete ✦\n", displayTitle(t.Title))
		res, err := hooks.Invoke(ctx, a.hookOptions(), t)
		if err != nil {
			a.logger.Warn("celebrate hook failed", "id", t.ID, "exit", res.ExitCode, "err", err)
			fmt.Fprintf(stderr, "celebrate hook: %v\n", err)
			return
		}
		if res.Ran {
			a.logger.Info("celebrate hook finished", "id", t.ID)
		}
	}
}

// confirm asks on stdin and accepts only y or yes.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(stdout, "%s [y/N] ", prompt)
	var answer string
	if _, err := fmt.Fscanln(stdin, &answer); err != nil {
		fmt.Fprintln(stdout)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// boardCommand launches the interactive board.
func boardCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit board", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a.logger.Info("board started", "board", a.cfg.BoardFile)
	err := ui.RunBoard(ctx, ui.Options{
		Dispatcher:    a.board,
		ColumnWidth:   a.cfg.ColumnWidth,
		ConfirmDelete: a.cfg.ConfirmDelete,
		Celebrate:     hooks.Celebrator(ctx, hooks.Options{Command: a.cfg.CelebrateCommand, WorkDir: a.cfg.ProjectRoot}, a.logger),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("board closed")
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "orbit version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Orbit - A local kanban board")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  orbit [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  board                 Open the interactive board (default command)")
	fmt.Fprintln(w, "  add [title]           Create a task")
	fmt.Fprintln(w, "  edit <id>             Edit a task")
	fmt.Fprintln(w, "  rm <id>               Delete a task")
	fmt.Fprintln(w, "  mv <id> <status>      Move a task to todo, doing or done")
	fmt.Fprintln(w, "  toggle <id> <n>       Toggle subtask n (1-based)")
	fmt.Fprintln(w, "  ls [status]           List tasks by column")
	fmt.Fprintln(w, "  show <id>             Show one task")
	fmt.Fprintln(w, "  stats                 Show completion stats")
	fmt.Fprintln(w, "  search <query>        Search titles, tags and subtasks")
	fmt.Fprintln(w, "  export                Write the board as JSON or YAML")
	fmt.Fprintln(w, "  init                  Create orbit config, board and schema files")
	fmt.Fprintln(w, "  doctor                Check config, storage and board validity")
	fmt.Fprintln(w, "  tail                  Show the latest session log")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task ids may be abbreviated to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -title string")
	fmt.Fprintln(w, "        Task title")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Priority (low|med|high, default med)")
	fmt.Fprintln(w, "  -tags string")
	fmt.Fprintln(w, "        Tag (stored as a single tag)")
	fmt.Fprintln(w, "  -subtask string")
	fmt.Fprintln(w, "        Subtask text (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rm Options:")
	fmt.Fprintln(w, "  -y    Delete without asking")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls/Search Options:")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (todo|doing|done)")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Filter by priority (search only)")
	fmt.Fprintln(w, "  -v    Show tags and subtasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml, default json)")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List session logs instead")
}
