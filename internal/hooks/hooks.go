// Package hooks runs the external celebration command when a task is done.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/orbit/internal/task"
	"github.com/nibzard/orbit/internal/utils"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// children of a killed hook.
const waitDelay = time.Second

// Options configures a hook invocation.
type Options struct {
	Command string
	WorkDir string
	Stdout  io.Writer // defaults to io.Discard
	Stderr  io.Writer // defaults to io.Discard
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
	TaskID   string
	Status   string
}

// Invoke runs the hook for t and waits for it. The command receives the
// task id, status and title as arguments and the task JSON on stdin.
// An empty command is not an error; nothing runs.
func Invoke(ctx context.Context, opts Options, t task.Task) (Result, error) {
	cmd, err := prepare(ctx, opts, t)
	if err != nil || cmd == nil {
		return Result{}, err
	}
	err = cmd.Run()
	return finish(cmd, t, err)
}

// Start launches the hook for t without waiting. done, if set, is called
// from a background goroutine once the process exits.
func Start(ctx context.Context, opts Options, t task.Task, done func(Result, error)) (bool, error) {
	cmd, err := prepare(ctx, opts, t)
	if err != nil || cmd == nil {
		return false, err
	}
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("start hook command: %w", err)
	}
	go func() {
		res, err := finish(cmd, t, cmd.Wait())
		if done != nil {
			done(res, err)
		}
	}()
	return true, nil
}

// Celebrator returns a celebration callback that starts the hook in the
// background and logs its outcome.
func Celebrator(ctx context.Context, opts Options, logger *log.Logger) func(task.Task) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(t task.Task) {
		if strings.TrimSpace(opts.Command) == "" {
			return
		}
		started, err := Start(ctx, opts, t, func(res Result, err error) {
			if err != nil {
				logger.Warn("celebrate hook failed", "id", res.TaskID, "exit", res.ExitCode, "err", err)
				return
			}
			logger.Debug("celebrate hook finished", "id", res.TaskID)
		})
		if err != nil {
			logger.Warn("celebrate hook not started", "id", t.ID, "err", err)
			return
		}
		if started {
			logger.Info("celebrate hook started", "id", t.ID, "command", opts.Command)
		}
	}
}

func prepare(ctx context.Context, opts Options, t task.Task) (*exec.Cmd, error) {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		return nil, nil
	}
	path, err := utils.ResolveCommand(command)
	if err != nil {
		return nil, fmt.Errorf("resolve hook command: %w", err)
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal hook payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, path, t.ID, string(t.Status), t.Title)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"ORBIT_TASK_ID="+t.ID,
		"ORBIT_TASK_STATUS="+string(t.Status),
		"ORBIT_TASK_TITLE="+t.Title,
	)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = writerOrDiscard(opts.Stdout)
	cmd.Stderr = writerOrDiscard(opts.Stderr)
	cmd.WaitDelay = waitDelay
	return cmd, nil
}

func finish(cmd *exec.Cmd, t task.Task, err error) (Result, error) {
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
		TaskID:   t.ID,
		Status:   string(t.Status),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
