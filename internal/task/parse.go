package task

import (
	"fmt"
	"strings"

	"github.com/nibzard/orbit/internal/utils"
)

// ParseSubtasks splits newline-delimited text into unchecked subtasks.
// Lines are trimmed; blank and whitespace-only lines are dropped.
func ParseSubtasks(text string) []Subtask {
	lines := utils.SplitNonBlankLines(text)
	subtasks := make([]Subtask, 0, len(lines))
	for _, line := range lines {
		subtasks = append(subtasks, Subtask{Text: line, Done: false})
	}
	return subtasks
}

// ParseTags turns the single tags field into a tag list. A blank or
// whitespace-only field yields an empty list; anything else is stored as one
// tag, verbatim. Commas are not treated as separators.
// A field of only spaces is therefore not kept as a blank-looking tag.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return []string{raw}
}

// FormatSubtasks flattens subtasks into one line per subtask, suitable for
// feeding back into ParseSubtasks.
func FormatSubtasks(subtasks []Subtask) string {
	lines := make([]string, len(subtasks))
	for i, s := range subtasks {
		lines[i] = s.Text
	}
	return strings.Join(lines, "\n")
}

// FormatTags joins tags for display in the tags field.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ParseStatus parses a status name. Column titles and a few aliases are
// accepted so CLI users can type "in-progress" or "To Do".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to do", "to-do":
		return StatusTodo, nil
	case "doing", "in progress", "in-progress", "wip":
		return StatusDoing, nil
	case "done", "complete":
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: todo, doing, done", ErrInvalidStatus, s)
}

// ParsePriority parses a priority name. A blank value yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPriority, nil
	case "low", "l":
		return PriorityLow, nil
	case "med", "medium", "m":
		return PriorityMed, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: low, med, high", ErrInvalidPriority, s)
}
