package task

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSubtasks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Subtask
	}{
		{"empty", "", []Subtask{}},
		{"blank and whitespace lines dropped", "a\n\nb\n ", []Subtask{{Text: "a"}, {Text: "b"}}},
		{"lines trimmed", "  buy milk \n\t call mom", []Subtask{{Text: "buy milk"}, {Text: "call mom"}}},
		{"order kept", "3\n1\n2", []Subtask{{Text: "3"}, {Text: "1"}, {Text: "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSubtasks(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSubtasks(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"\t \n", []string{}},
		{"work", []string{"work"}},
		// The field is a single tag; commas are not separators.
		{"work, home", []string{"work, home"}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	subtasks := []Subtask{{Text: "a", Done: true}, {Text: "b"}}
	text := FormatSubtasks(subtasks)
	if text != "a\nb" {
		t.Errorf("FormatSubtasks = %q", text)
	}
	parsed := ParseSubtasks(text)
	if len(parsed) != 2 || parsed[0].Text != "a" || parsed[1].Text != "b" {
		t.Errorf("ParseSubtasks(FormatSubtasks) = %+v", parsed)
	}

	if got := FormatTags([]string{"x", "y"}); got != "x, y" {
		t.Errorf("FormatTags = %q", got)
	}
	if got := FormatTags(nil); got != "" {
		t.Errorf("FormatTags(nil) = %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"todo", StatusTodo},
		{"To Do", StatusTodo},
		{"doing", StatusDoing},
		{"in-progress", StatusDoing},
		{" DONE ", StatusDone},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseStatus("blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(blocked) err = %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"", PriorityMed},
		{"low", PriorityLow},
		{"medium", PriorityMed},
		{"HIGH", PriorityHigh},
		{"h", PriorityHigh},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("ParsePriority(urgent) err = %v", err)
	}
}

func TestStatusAndPriorityValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("blocked").Valid() {
		t.Error("blocked should not be a board status")
	}
	for _, p := range Priorities() {
		if !p.Valid() {
			t.Errorf("priority %q should be valid", p)
		}
	}
	if Priority("").Valid() {
		t.Error("empty priority should be invalid")
	}
}
