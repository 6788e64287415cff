package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/orbit/internal/board"
	"github.com/nibzard/orbit/internal/render"
	"github.com/nibzard/orbit/internal/task"
)

// shortIDLen is how many id characters the CLI prints.
const shortIDLen = 8

var errAmbiguousID = errors.New("ambiguous task id")

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, "\n")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// addCommand creates a task.
func addCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "Task title")
	priority := fs.String("priority", "", "Priority (low|med|high)")
	tags := fs.String("tags", "", "Tag")
	var subtasks stringList
	fs.Var(&subtasks, "subtask", "Subtask text (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		if *title != "" {
			return fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
		*title = strings.Join(fs.Args(), " ")
	}

	p, err := task.ParsePriority(*priority)
	if err != nil {
		return err
	}

	form := render.NewForm()
	form.Title = *title
	form.Priority = p
	form.Tags = *tags
	form.Subtasks = subtasks.String()

	res, err := a.board.Submit(form)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created %s %s\n", shortID(res.TaskID), displayTitle(*title))
	return nil
}

// editCommand changes the fields given on the command line and keeps the rest.
func editCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "Task title")
	priority := fs.String("priority", "", "Priority (low|med|high)")
	tags := fs.String("tags", "", "Tag (empty clears)")
	var subtasks stringList
	fs.Var(&subtasks, "subtask", "Replacement subtask text (repeatable)")

	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	tasks := a.store.Tasks()
	id, err = resolveID(tasks, id)
	if err != nil {
		return err
	}

	form, err := render.EditForm(tasks, id)
	if err != nil {
		return err
	}
	// Blank subtask text keeps the current subtasks and their done flags.
	form.Subtasks = ""

	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "title":
			form.Title = *title
		case "tags":
			form.Tags = *tags
		case "subtask":
			form.Subtasks = subtasks.String()
		}
	})
	if *priority != "" {
		p, err := task.ParsePriority(*priority)
		if err != nil {
			return err
		}
		form.Priority = p
	}
	if !changed {
		return fmt.Errorf("nothing to change: use -title, -priority, -tags or -subtask")
	}

	if _, err := a.board.Submit(form); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Updated %s %s\n", shortID(id), displayTitle(form.Title))
	return nil
}

// rmCommand deletes a task after confirmation.
func rmCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit rm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("y", false, "Delete without asking")

	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	tasks := a.store.Tasks()
	id, err = resolveID(tasks, id)
	if err != nil {
		return err
	}
	t, _ := task.Get(tasks, id)

	res, err := a.board.Dispatch(board.Command{
		Intent:    board.Delete,
		ID:        id,
		Confirmed: *yes || !a.cfg.ConfirmDelete,
	})
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Fprintln(stdout, "Kept.")
		return nil
	}
	fmt.Fprintf(stdout, "Deleted %s %s\n", shortID(id), displayTitle(t.Title))
	return nil
}

// mvCommand moves a task to another column.
func mvCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit mv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: orbit mv <id> <todo|doing|done>")
	}

	id, err := resolveID(a.store.Tasks(), fs.Arg(0))
	if err != nil {
		return err
	}
	status, err := task.ParseStatus(fs.Arg(1))
	if err != nil {
		return err
	}

	res, err := a.board.Dispatch(board.Command{Intent: board.Move, ID: id, Status: status})
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Fprintf(stdout, "%s is already in %s\n", shortID(id), render.ColumnTitle(status))
		return nil
	}
	fmt.Fprintf(stdout, "Moved %s to %s\n", shortID(id), render.ColumnTitle(status))
	return nil
}

// toggleCommand flips one subtask, numbered from 1 as in the board.
func toggleCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit toggle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: orbit toggle <id> <subtask number>")
	}

	tasks := a.store.Tasks()
	id, err := resolveID(tasks, fs.Arg(0))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid subtask number %q", fs.Arg(1))
	}

	if _, err := a.board.Dispatch(board.Command{Intent: board.ToggleSubtask, ID: id, Index: n - 1}); err != nil {
		return err
	}
	t, _ := task.Get(a.store.Tasks(), id)
	s := t.Subtasks[n-1]
	fmt.Fprintf(stdout, "%s %s (%d/%d)\n", checkbox(s.Done), s.Text, t.DoneSubtasks(), len(t.Subtasks))
	return nil
}

// parseWithID parses flags that may appear before or after a single id.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() == 0 {
		return "", fmt.Errorf("missing task id")
	}
	id := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return id, nil
}

// resolveID expands a unique id prefix. An exact match always wins.
func resolveID(tasks []task.Task, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("missing task id")
	}
	if _, ok := task.Get(tasks, prefix); ok {
		return prefix, nil
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &task.PreconditionError{Op: "resolve", ID: prefix, Err: task.ErrTaskNotFound}
	case 1:
		return matches[0], nil
	}
	short := make([]string, len(matches))
	for i, m := range matches {
		short[i] = shortID(m)
	}
	return "", fmt.Errorf("%w %q matches %s", errAmbiguousID, prefix, strings.Join(short, ", "))
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return fmt.Sprintf("%q", title)
}
