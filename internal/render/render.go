// Package render derives the board view model from a task collection.
// Functions here are pure: they never write to the store.
package render

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/bidi"

	"github.com/nibzard/orbit/internal/task"
)

// Direction is the text direction of a card title.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Stats summarizes the board.
type Stats struct {
	Total   int
	Done    int
	Active  int // tasks not in done
	Percent int // round(100*done/total); 0 for an empty board
}

// SubtaskView is one subtask line on a card.
type SubtaskView struct {
	Index int
	Text  string
	Done  bool
}

// Card is the view of one task.
type Card struct {
	ID       string
	Title    string
	Priority task.Priority
	Status   task.Status
	Tags     []string
	Subtasks []SubtaskView
	Done     int // checked subtasks
	Dir      Direction
}

// Progress returns "done/total" for the card's subtasks, or "" when it has none.
func (c Card) Progress() string {
	if len(c.Subtasks) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", c.Done, len(c.Subtasks))
}

// Column is one status column.
type Column struct {
	Status task.Status
	Title  string
	Count  int
	Cards  []Card
}

// View is everything a frontend needs to draw the board.
type View struct {
	Stats   Stats
	Columns []Column
}

// Form holds the fields of the create/edit dialog.
type Form struct {
	ID       string // empty in create mode
	Title    string
	Priority task.Priority
	Tags     string
	Subtasks string
}

// Editing reports whether the form edits an existing task.
func (f Form) Editing() bool {
	return f.ID != ""
}

// Input converts the form into mutation input.
func (f Form) Input() task.Input {
	return task.Input{
		Title:    f.Title,
		Priority: f.Priority,
		Tags:     f.Tags,
		Subtasks: f.Subtasks,
	}
}

var columnTitles = map[task.Status]string{
	task.StatusTodo:  "To Do",
	task.StatusDoing: "In Progress",
	task.StatusDone:  "Done",
}

// ColumnTitle returns the display title for status.
func ColumnTitle(status task.Status) string {
	if title, ok := columnTitles[status]; ok {
		return title
	}
	return string(status)
}

// ComputeStats counts tasks and the done percentage.
func ComputeStats(tasks []task.Task) Stats {
	s := Stats{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Status == task.StatusDone {
			s.Done++
		}
	}
	s.Active = s.Total - s.Done
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	return s
}

// Columns groups tasks into the three status columns, keeping collection order.
func Columns(tasks []task.Task) []Column {
	statuses := task.Statuses()
	cols := make([]Column, len(statuses))
	index := make(map[task.Status]int, len(statuses))
	for i, st := range statuses {
		cols[i] = Column{Status: st, Title: ColumnTitle(st), Cards: []Card{}}
		index[st] = i
	}
	for i := range tasks {
		ci, ok := index[tasks[i].Status]
		if !ok {
			continue
		}
		cols[ci].Cards = append(cols[ci].Cards, NewCard(tasks[i]))
	}
	for i := range cols {
		cols[i].Count = len(cols[i].Cards)
	}
	return cols
}

// NewCard builds the card for t.
func NewCard(t task.Task) Card {
	c := Card{
		ID:       t.ID,
		Title:    t.Title,
		Priority: t.Priority,
		Status:   t.Status,
		Tags:     append([]string{}, t.Tags...),
		Subtasks: make([]SubtaskView, len(t.Subtasks)),
		Done:     t.DoneSubtasks(),
		Dir:      TextDirection(t.Title),
	}
	for i, s := range t.Subtasks {
		c.Subtasks[i] = SubtaskView{Index: i, Text: s.Text, Done: s.Done}
	}
	return c
}

// TextDirection returns RTL if s contains any right-to-left letter.
func TextDirection(s string) Direction {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return RTL
		}
	}
	return LTR
}

// NewForm returns the blank create form.
func NewForm() Form {
	return Form{Priority: task.DefaultPriority}
}

// EditForm pre-fills the dialog for the task with id: tags joined by ", "
// and subtasks one per line.
func EditForm(tasks []task.Task, id string) (Form, error) {
	t, ok := task.Get(tasks, id)
	if !ok {
		return Form{}, &task.PreconditionError{Op: "edit", ID: id, Err: task.ErrTaskNotFound}
	}
	return Form{
		ID:       t.ID,
		Title:    t.Title,
		Priority: t.Priority,
		Tags:     task.FormatTags(t.Tags),
		Subtasks: task.FormatSubtasks(t.Subtasks),
	}, nil
}

// Build derives the whole view.
func Build(tasks []task.Task) View {
	return View{
		Stats:   ComputeStats(tasks),
		Columns: Columns(tasks),
	}
}

// Find returns the card with id and its column index.
func (v View) Find(id string) (Card, int, bool) {
	for ci, col := range v.Columns {
		for _, c := range col.Cards {
			if c.ID == id {
				return c, ci, true
			}
		}
	}
	return Card{}, -1, false
}

// Summary is the one-line stats text.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d%% complete · %d active · %d done", s.Percent, s.Active, s.Done)
}
