package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/orbit/internal/render"
	"github.com/nibzard/orbit/internal/task"
)

type formField int

const (
	fieldTitle formField = iota
	fieldPriority
	fieldTags
	fieldSubtasks
	fieldCount
)

var fieldLabels = [...]string{
	fieldTitle:    "Title",
	fieldPriority: "Priority",
	fieldTags:     "Tags",
	fieldSubtasks: "Subtasks",
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// formModel is the create/edit dialog.
type formModel struct {
	id       string
	title    textinput.Model
	tags     textinput.Model
	subtasks textarea.Model
	priority int
	focus    formField
}

func newFormModel(f render.Form, width int) *formModel {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Width = width
	title.SetValue(f.Title)

	tags := textinput.New()
	tags.Placeholder = "tag"
	tags.Width = width
	tags.SetValue(f.Tags)

	subtasks := textarea.New()
	subtasks.Placeholder = "One subtask per line"
	subtasks.ShowLineNumbers = false
	subtasks.SetWidth(width)
	subtasks.SetHeight(5)
	subtasks.SetValue(f.Subtasks)

	m := &formModel{
		id:       f.ID,
		title:    title,
		tags:     tags,
		subtasks: subtasks,
	}
	p := f.Priority
	if !p.Valid() {
		p = task.DefaultPriority
	}
	m.setPriority(p)
	m.setFocus(fieldTitle)
	return m
}

func (m *formModel) setPriority(p task.Priority) {
	for i, candidate := range task.Priorities() {
		if candidate == p {
			m.priority = i
		}
	}
}

func (m *formModel) setFocus(f formField) {
	m.focus = f
	m.title.Blur()
	m.tags.Blur()
	m.subtasks.Blur()
	switch f {
	case fieldTitle:
		m.title.Focus()
	case fieldTags:
		m.tags.Focus()
	case fieldSubtasks:
		m.subtasks.Focus()
	}
}

// Value returns the form contents.
func (m *formModel) Value() render.Form {
	return render.Form{
		ID:       m.id,
		Title:    m.title.Value(),
		Priority: task.Priorities()[m.priority],
		Tags:     m.tags.Value(),
		Subtasks: m.subtasks.Value(),
	}
}

func (m *formModel) Update(msg tea.Msg) (tea.Cmd, formAction) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s":
			return nil, formSubmit
		case "esc":
			return nil, formCancel
		case "tab":
			m.setFocus((m.focus + 1) % fieldCount)
			return nil, formNone
		case "shift+tab":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return nil, formNone
		case "enter":
			if m.focus != fieldSubtasks {
				m.setFocus(m.focus + 1)
				return nil, formNone
			}
		}
		if m.focus == fieldPriority {
			n := len(task.Priorities())
			switch key.String() {
			case "left", "h", "-":
				m.priority = (m.priority + n - 1) % n
			case "right", "l", "+", " ":
				m.priority = (m.priority + 1) % n
			}
			return nil, formNone
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldTags:
		m.tags, cmd = m.tags.Update(msg)
	case fieldSubtasks:
		m.subtasks, cmd = m.subtasks.Update(msg)
	}
	return cmd, formNone
}

func (m *formModel) View() string {
	var b strings.Builder
	heading := "New task"
	if m.id != "" {
		heading = "Edit task"
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	for f := fieldTitle; f < fieldCount; f++ {
		label := labelStyle.Render(fieldLabels[f])
		if f == m.focus {
			label = focusedLabelStyle.Render(fieldLabels[f])
		}
		b.WriteString(label)
		switch f {
		case fieldTitle:
			b.WriteString(m.title.View())
		case fieldPriority:
			b.WriteString(m.priorityView())
		case fieldTags:
			b.WriteString(m.tags.View())
		case fieldSubtasks:
			b.WriteString("\n" + m.subtasks.View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + subtleStyle.Render("tab next field · ←/→ priority · ctrl+s save · esc cancel"))
	return modalStyle.Render(b.String())
}

func (m *formModel) priorityView() string {
	parts := make([]string, 0, 3)
	for i, p := range task.Priorities() {
		label := string(p)
		if i == m.priority {
			parts = append(parts, priorityStyle(p).Render(fmt.Sprintf("[%s]", label)))
			continue
		}
		parts = append(parts, subtleStyle.Render(" "+label+" "))
	}
	return strings.Join(parts, " ")
}
