package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/orbit/internal/task"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

var doneTask = task.Task{ID: "t-1", Title: "Ship release", Priority: task.PriorityHigh, Status: task.StatusDone}

func TestInvoke(t *testing.T) {
	t.Run("empty command does nothing", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{}, doneTask)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("missing command returns error", func(t *testing.T) {
		_, err := Invoke(context.Background(), Options{Command: "orbit-no-such-hook-binary"}, doneTask)
		if err == nil {
			t.Fatal("expected error for missing command")
		}
	})

	t.Run("passes arguments env and stdin", func(t *testing.T) {
		script := writeScript(t, `echo "$1|$2|$3|$ORBIT_TASK_ID"; cat`)
		var out bytes.Buffer
		result, err := Invoke(context.Background(), Options{Command: script, Stdout: &out}, doneTask)
		if err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if !result.Ran || result.ExitCode != 0 || result.TaskID != "t-1" || result.Status != "done" {
			t.Errorf("result = %+v", result)
		}
		lines := strings.SplitN(out.String(), "\n", 2)
		if lines[0] != "t-1|done|Ship release|t-1" {
			t.Errorf("args line = %q", lines[0])
		}
		if !strings.Contains(lines[1], `"title":"Ship release"`) {
			t.Errorf("stdin payload = %q", lines[1])
		}
		if len(result.Command) != 4 {
			t.Errorf("Command = %q", result.Command)
		}
	})

	t.Run("non-zero exit is reported", func(t *testing.T) {
		script := writeScript(t, "exit 42")
		result, err := Invoke(context.Background(), Options{Command: script}, doneTask)
		if err == nil {
			t.Fatal("expected error")
		}
		if result.ExitCode != 42 {
			t.Errorf("ExitCode = %d, want 42", result.ExitCode)
		}
	})

	t.Run("runs in work dir", func(t *testing.T) {
		script := writeScript(t, "pwd")
		workDir := t.TempDir()
		var out bytes.Buffer
		if _, err := Invoke(context.Background(), Options{Command: script, WorkDir: workDir, Stdout: &out}, doneTask); err != nil {
			t.Fatal(err)
		}
		got, _ := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
		want, _ := filepath.EvalSymlinks(workDir)
		if got != want {
			t.Errorf("pwd = %q, want %q", got, want)
		}
	})

	t.Run("context cancellation stops the hook", func(t *testing.T) {
		script := writeScript(t, "exec sleep 10")
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		start := time.Now()
		if _, err := Invoke(ctx, Options{Command: script}, doneTask); err == nil {
			t.Error("expected error from cancelled hook")
		}
		if time.Since(start) > 5*time.Second {
			t.Error("hook was not stopped by context")
		}
	})
}

func TestStartDoesNotWait(t *testing.T) {
	script := writeScript(t, "sleep 1")

	finished := make(chan Result, 1)
	start := time.Now()
	started, err := Start(context.Background(), Options{Command: script}, doneTask, func(res Result, err error) {
		finished <- res
	})
	if err != nil || !started {
		t.Fatalf("Start() = %v, %v", started, err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Start blocked on the hook")
	}

	select {
	case res := <-finished:
		if !res.Ran || res.ExitCode != 0 {
			t.Errorf("result = %+v", res)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("hook never reaped")
	}
}

func TestCelebrator(t *testing.T) {
	script := writeScript(t, "exit 3")

	var mu sync.Mutex
	var buf bytes.Buffer
	logger := log.NewWithOptions(&lockedWriter{mu: &mu, w: &buf}, log.Options{Level: log.DebugLevel})

	celebrate := Celebrator(context.Background(), Options{Command: script}, logger)
	celebrate(doneTask)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		logged := buf.String()
		mu.Unlock()
		if strings.Contains(logged, "celebrate hook failed") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("hook failure was not logged")
}

func TestCelebratorWithoutCommand(t *testing.T) {
	var buf bytes.Buffer
	celebrate := Celebrator(context.Background(), Options{}, log.New(&buf))
	celebrate(doneTask)
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestExitCodeFromError(t *testing.T) {
	if exitCodeFromError(nil) != 0 {
		t.Error("nil error should be exit code 0")
	}
	if exitCodeFromError(os.ErrNotExist) != -1 {
		t.Error("non-exit error should be -1")
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
