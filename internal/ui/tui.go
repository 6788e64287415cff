// Package ui provides the terminal board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nibzard/orbit/internal/board"
	"github.com/nibzard/orbit/internal/render"
	"github.com/nibzard/orbit/internal/task"
)

// bannerDuration is how long the celebration banner stays up.
const bannerDuration = 2500 * time.Millisecond

// Options configures the board TUI.
type Options struct {
	Dispatcher    *board.Dispatcher
	ColumnWidth   int
	ConfirmDelete bool
	// Celebrate is called after the on-screen banner, typically to start
	// the external hook.
	Celebrate board.CelebrateFunc
}

// RunBoard starts the interactive board and blocks until the user quits.
func RunBoard(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("board requires a TTY (use \"orbit ls\" for plain output)")
	}
	model := newBoardModel(opts)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type boardModel struct {
	d             *board.Dispatcher
	view          render.View
	columnWidth   int
	confirmDelete bool
	celebrate     board.CelebrateFunc
	unsubscribe   func()

	col      int
	row      int
	sub      int // subtask cursor on the selected card, -1 for none
	carrying bool

	form      *formModel
	confirmID string
	showHelp  bool

	status    string
	statusErr bool
	banner    string
	bannerSeq int
	width     int
}

type clearBannerMsg struct {
	seq int
}

func newBoardModel(opts Options) *boardModel {
	m := &boardModel{
		d:             opts.Dispatcher,
		columnWidth:   opts.ColumnWidth,
		confirmDelete: opts.ConfirmDelete,
		celebrate:     opts.Celebrate,
		sub:           -1,
	}
	if m.columnWidth <= 0 {
		m.columnWidth = 34
	}

	// Every store write rebuilds the view model. Dispatch runs inside
	// Update, so the observer runs on the program goroutine.
	m.unsubscribe = m.d.Store.Subscribe(func(tasks []task.Task) {
		m.view = render.Build(tasks)
		m.clampCursor()
	})
	m.d.Celebrate = m.onCelebrate
	m.view = render.Build(m.d.Store.Tasks())
	return m
}

// Close detaches the model from the store.
func (m *boardModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *boardModel) Init() tea.Cmd {
	return nil
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case clearBannerMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.form != nil {
			return m, m.updateForm(msg)
		}
		if m.confirmID != "" {
			return m, m.updateConfirm(msg)
		}
		return m, m.updateBoard(msg)
	}

	if m.form != nil {
		cmd, _ := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *boardModel) updateBoard(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.showHelp && key != "q" {
		m.showHelp = false
		return nil
	}

	switch key {
	case "q":
		return tea.Quit
	case "?":
		m.showHelp = true
	case "h", "left":
		m.moveColumn(-1)
	case "l", "right":
		m.moveColumn(1)
	case "k", "up":
		if m.row > 0 {
			m.row--
		}
		m.sub = -1
	case "j", "down":
		m.row++
		m.sub = -1
		m.clampCursor()
	case "tab":
		m.moveSubtask(1)
	case "shift+tab":
		m.moveSubtask(-1)
	case "x":
		card, ok := m.selected()
		if !ok || m.carrying || m.sub < 0 {
			return nil
		}
		return m.dispatch(board.Command{Intent: board.ToggleSubtask, ID: card.ID, Index: m.sub})
	case "n":
		if m.carrying {
			return nil
		}
		m.form = newFormModel(render.NewForm(), m.formWidth())
	case "e":
		card, ok := m.selected()
		if !ok || m.carrying {
			return nil
		}
		form, err := render.EditForm(m.d.Store.Tasks(), card.ID)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.form = newFormModel(form, m.formWidth())
	case "d", "delete":
		card, ok := m.selected()
		if !ok || m.carrying {
			return nil
		}
		if m.confirmDelete {
			m.confirmID = card.ID
			return nil
		}
		return m.dispatch(board.Command{Intent: board.Delete, ID: card.ID, Confirmed: true})
	case " ", "space", "enter":
		return m.pickOrDrop()
	case "esc":
		if m.carrying {
			m.carrying = false
			m.setStatus("Move cancelled")
			return m.dispatch(board.Command{Intent: board.DragEnd})
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		card, ok := m.selected()
		if !ok || m.carrying {
			return nil
		}
		index := int(key[0] - '1')
		return m.dispatch(board.Command{Intent: board.ToggleSubtask, ID: card.ID, Index: index})
	}
	return nil
}

func (m *boardModel) pickOrDrop() tea.Cmd {
	if !m.carrying {
		card, ok := m.selected()
		if !ok {
			return nil
		}
		if _, err := m.d.Dispatch(board.Command{Intent: board.DragStart, ID: card.ID}); err != nil {
			m.setError(err)
			return nil
		}
		m.carrying = true
		m.setStatus("Carrying " + quoteTitle(card.Title) + ": ←/→ choose a column, space to drop, esc to cancel")
		return nil
	}

	id, _ := m.d.Store.DraggedID()
	target := m.view.Columns[m.col].Status
	res, err := m.d.Dispatch(board.Command{Intent: board.Drop, Status: target})
	m.carrying = false
	if _, endErr := m.d.Dispatch(board.Command{Intent: board.DragEnd}); endErr != nil && err == nil {
		err = endErr
	}
	if err != nil {
		m.setError(err)
	} else if res.Changed {
		m.setStatus("Moved to " + render.ColumnTitle(target))
	} else {
		m.setStatus("")
	}
	m.focusCard(id)
	return m.afterResult(res)
}

func (m *boardModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	id := m.confirmID
	m.confirmID = ""
	switch msg.String() {
	case "y", "Y":
		return m.dispatch(board.Command{Intent: board.Delete, ID: id, Confirmed: true})
	default:
		m.setStatus("Delete cancelled")
		return nil
	}
}

func (m *boardModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	cmd, action := m.form.Update(msg)
	switch action {
	case formCancel:
		m.form = nil
		return nil
	case formSubmit:
		form := m.form.Value()
		res, err := m.d.Submit(form)
		if err != nil && task.IsPrecondition(err) {
			m.setError(err)
			return nil
		}
		m.form = nil
		if err != nil {
			m.setError(err)
		} else if form.Editing() {
			m.setStatus("Task updated")
		} else {
			m.setStatus("Task created")
		}
		m.focusCard(res.TaskID)
		return nil
	}
	return cmd
}

func (m *boardModel) dispatch(cmd board.Command) tea.Cmd {
	res, err := m.d.Dispatch(cmd)
	if err != nil {
		m.setError(err)
	}
	return m.afterResult(res)
}

func (m *boardModel) afterResult(res board.Result) tea.Cmd {
	if !res.Celebrated {
		return nil
	}
	seq := m.bannerSeq
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return clearBannerMsg{seq: seq}
	})
}

func (m *boardModel) onCelebrate(t task.Task) {
	m.bannerSeq++
	m.banner = "✦ Done! " + quoteTitle(t.Title) + " is complete ✦"
	if m.celebrate != nil {
		m.celebrate(t)
	}
}

func (m *boardModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *boardModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// moveSubtask steps the subtask cursor through the selected card, wrapping
// at either end.
func (m *boardModel) moveSubtask(delta int) {
	card, ok := m.selected()
	if !ok || len(card.Subtasks) == 0 {
		m.sub = -1
		return
	}
	n := len(card.Subtasks)
	if m.sub < 0 {
		if delta > 0 {
			m.sub = 0
		} else {
			m.sub = n - 1
		}
		return
	}
	m.sub = (m.sub + delta + n) % n
}

func (m *boardModel) moveColumn(delta int) {
	m.sub = -1
	m.col += delta
	if m.col < 0 {
		m.col = 0
	}
	if m.col >= len(m.view.Columns) {
		m.col = len(m.view.Columns) - 1
	}
	m.clampCursor()
}

func (m *boardModel) clampCursor() {
	if m.col < 0 || m.col >= len(m.view.Columns) {
		m.col = 0
	}
	n := len(m.view.Columns[m.col].Cards)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	if card, ok := m.selected(); !ok || m.sub >= len(card.Subtasks) {
		m.sub = -1
	}
}

func (m *boardModel) focusCard(id string) {
	for ci, col := range m.view.Columns {
		for ri, c := range col.Cards {
			if c.ID == id {
				if m.col != ci || m.row != ri {
					m.sub = -1
				}
				m.col, m.row = ci, ri
				return
			}
		}
	}
	m.clampCursor()
}

func (m *boardModel) selected() (render.Card, bool) {
	if m.col < 0 || m.col >= len(m.view.Columns) {
		return render.Card{}, false
	}
	cards := m.view.Columns[m.col].Cards
	if m.row < 0 || m.row >= len(cards) {
		return render.Card{}, false
	}
	return cards[m.row], true
}

func (m *boardModel) formWidth() int {
	return m.columnWidth + 16
}

func (m *boardModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.view.Stats)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.columnsView())
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(bannerStyle.Render(m.banner) + "\n")
	}
	if m.confirmID != "" {
		b.WriteString(confirmStyle.Render(board.DeletePrompt+" (y/n)") + "\n")
	} else if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status) + "\n")
		} else {
			b.WriteString(subtleStyle.Render(m.status) + "\n")
		}
	}
	writeFooter(&b)
	return b.String()
}

func (m *boardModel) columnsView() string {
	draggedID, _ := m.d.Store.DraggedID()
	inner := m.columnWidth - 4

	cols := make([]string, len(m.view.Columns))
	for ci, col := range m.view.Columns {
		var b strings.Builder
		header := fmt.Sprintf("%s (%d)", col.Title, col.Count)
		b.WriteString(titleStyle.Render(header) + "\n")
		if len(col.Cards) == 0 {
			b.WriteString(subtleStyle.Render("empty") + "\n")
		}
		for ri, card := range col.Cards {
			style := cardStyle
			cursor := -1
			switch {
			case m.carrying && card.ID == draggedID:
				style = carriedCardStyle
			case ci == m.col && ri == m.row:
				style = selectedCardStyle
				cursor = m.sub
			}
			b.WriteString(style.Width(inner).Render(cardView(card, inner-2, cursor)) + "\n")
		}
		if m.carrying && ci == m.col {
			b.WriteString(confirmStyle.Render("▼ drop here") + "\n")
		}

		style := columnStyle
		if ci == m.col {
			style = activeColumnStyle
		}
		cols[ci] = style.Width(m.columnWidth).Render(strings.TrimRight(b.String(), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// cardView renders one card. cursor marks a subtask, or is -1.
func cardView(card render.Card, width, cursor int) string {
	var lines []string

	title := card.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	title = runewidth.Truncate(title, width, "…")
	titleLine := lipgloss.NewStyle().Bold(true).Width(width)
	if card.Dir == render.RTL {
		titleLine = titleLine.Align(lipgloss.Right)
	}
	lines = append(lines, titleLine.Render(title))

	meta := priorityStyle(card.Priority).Render(string(card.Priority))
	if p := card.Progress(); p != "" {
		meta += subtleStyle.Render("  ☑ " + p)
	}
	lines = append(lines, meta)

	if len(card.Tags) > 0 {
		tags := make([]string, len(card.Tags))
		for i, t := range card.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, tagStyle.Render(runewidth.Truncate(strings.Join(tags, " "), width, "…")))
	}

	for _, s := range card.Subtasks {
		box := "[ ]"
		if s.Done {
			box = "[x]"
		}
		mark := " "
		if s.Index == cursor {
			mark = "›"
		}
		text := runewidth.Truncate(fmt.Sprintf("%s%d %s %s", mark, s.Index+1, box, s.Text), width, "…")
		switch {
		case s.Index == cursor:
			text = selectedSubtaskStyle.Render(text)
		case s.Done:
			text = doneStyle.Render(text)
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

func quoteTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "untitled task"
	}
	return fmt.Sprintf("%q", runewidth.Truncate(title, 40, "…"))
}

func writeTitle(b *strings.Builder, stats render.Stats) {
	b.WriteString(titleStyle.Render("Orbit") + "  ")
	b.WriteString(progressBar(stats.Percent, 20) + " ")
	b.WriteString(subtleStyle.Render(stats.Summary()) + "\n\n")
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return bannerStyle.Render(strings.Repeat("█", filled)) + subtleStyle.Render(strings.Repeat("░", width-filled))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  h/l, ←/→     Move between columns\n")
	b.WriteString("  j/k, ↑/↓     Move between cards\n")
	b.WriteString("  n            New task\n")
	b.WriteString("  e            Edit selected task\n")
	b.WriteString("  d            Delete selected task\n")
	b.WriteString("  space        Pick up / drop the selected task\n")
	b.WriteString("  esc          Cancel a move\n")
	b.WriteString("  tab/S-tab    Select next / previous subtask\n")
	b.WriteString("  x            Toggle the selected subtask\n")
	b.WriteString("  1-9          Toggle one of the first nine subtasks\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString(subtleStyle.Render("Press any key to close help") + "\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(subtleStyle.Render("n new · e edit · d delete · space move · tab/x subtask · ? help · q quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
