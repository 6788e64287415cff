package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/orbit/internal/render"
	"github.com/nibzard/orbit/internal/search"
	"github.com/nibzard/orbit/internal/task"
)

// lsCommand lists tasks grouped by column, in board order.
func lsCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (todo|doing|done)")
	verbose := fs.Bool("v", false, "Show tags and subtasks")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 && *statusFilter == "" {
		*statusFilter = fs.Arg(0)
	}

	view := render.Build(a.store.Tasks())
	if *statusFilter != "" {
		status, err := task.ParseStatus(*statusFilter)
		if err != nil {
			return err
		}
		for _, col := range view.Columns {
			if col.Status == status {
				printCards(stdout, col.Cards, *verbose)
			}
		}
		return nil
	}

	if view.Stats.Total == 0 {
		fmt.Fprintln(stdout, "No tasks yet. Add one with: orbit add <title>")
		return nil
	}
	for _, col := range view.Columns {
		fmt.Fprintf(stdout, "%s (%d):\n", col.Title, col.Count)
		printCards(stdout, col.Cards, *verbose)
		fmt.Fprintln(stdout)
	}
	fmt.Fprintln(stdout, view.Stats.Summary())
	return nil
}

// showCommand prints one task in full.
func showCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: orbit show <id>")
	}

	tasks := a.store.Tasks()
	id, err := resolveID(tasks, fs.Arg(0))
	if err != nil {
		return err
	}
	t, _ := task.Get(tasks, id)
	card := render.NewCard(t)

	fmt.Fprintf(stdout, "ID:       %s\n", t.ID)
	fmt.Fprintf(stdout, "Title:    %s\n", t.Title)
	fmt.Fprintf(stdout, "Status:   %s\n", render.ColumnTitle(t.Status))
	fmt.Fprintf(stdout, "Priority: %s\n", t.Priority)
	if len(t.Tags) > 0 {
		fmt.Fprintf(stdout, "Tags:     %s\n", formatTags(t.Tags))
	}
	fmt.Fprintf(stdout, "Created:  %s\n", t.CreatedAt.Local().Format(time.RFC1123))
	if card.Dir == render.RTL {
		fmt.Fprintln(stdout, "Direction: rtl")
	}
	if len(card.Subtasks) > 0 {
		fmt.Fprintf(stdout, "Subtasks: %s\n", card.Progress())
		for _, s := range card.Subtasks {
			fmt.Fprintf(stdout, "  %d %s %s\n", s.Index+1, checkbox(s.Done), s.Text)
		}
	}
	return nil
}

// statsCommand prints the board summary.
func statsCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := render.Build(a.store.Tasks())
	fmt.Fprintln(stdout, view.Stats.Summary())
	for _, col := range view.Columns {
		fmt.Fprintf(stdout, "  %-12s %d\n", col.Title, col.Count)
	}
	return nil
}

// searchCommand runs a full-text search over the board.
func searchCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (todo|doing|done)")
	priorityFilter := fs.String("priority", "", "Filter by priority (low|med|high)")
	verbose := fs.Bool("v", false, "Show tags and subtasks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var filter search.Filter
	if *statusFilter != "" {
		status, err := task.ParseStatus(*statusFilter)
		if err != nil {
			return err
		}
		filter.Status = status
	}
	if *priorityFilter != "" {
		priority, err := task.ParsePriority(*priorityFilter)
		if err != nil {
			return err
		}
		filter.Priority = priority
	}

	found, err := search.Tasks(a.store.Tasks(), strings.Join(fs.Args(), " "), filter)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return nil
	}
	cards := make([]render.Card, len(found))
	for i, t := range found {
		cards[i] = render.NewCard(t)
	}
	printCards(stdout, cards, *verbose)
	return nil
}

// exportCommand writes the collection in its stored JSON form or as YAML.
func exportCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orbit export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "json", "Output format (json|yaml)")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	tasks := a.store.Tasks()
	data, err := encodeTasks(tasks, *format)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(stdout, "Exported %d tasks to %s\n", len(tasks), *output)
	return nil
}

func encodeTasks(tasks []task.Task, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return task.Encode(tasks)
	case "yaml", "yml":
		data, err := yaml.Marshal(task.Normalize(tasks))
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("invalid export format %q (expected json|yaml)", format)
}

func printCards(w io.Writer, cards []render.Card, verbose bool) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for _, c := range cards {
		line := fmt.Sprintf("  %s  %-4s %s", shortID(c.ID), c.Priority, displayTitle(c.Title))
		if p := c.Progress(); p != "" {
			line += "  ☑ " + p
		}
		if !verbose && len(c.Tags) > 0 {
			line += "  " + formatTags(c.Tags)
		}
		fmt.Fprintln(w, line)
		if !verbose {
			continue
		}
		if len(c.Tags) > 0 {
			fmt.Fprintf(w, "      Tags: %s\n", formatTags(c.Tags))
		}
		for _, s := range c.Subtasks {
			fmt.Fprintf(w, "      %d %s %s\n", s.Index+1, checkbox(s.Done), s.Text)
		}
	}
}

func formatTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
