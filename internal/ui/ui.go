package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tinytasks/internal/formatter"
	"github.com/desertthunder/tinytasks/internal/tasks"
)

// Mode is what keystrokes currently drive.
type Mode int

const (
	BrowseMode Mode = iota
	AddMode
	EditMode
)

func (m Mode) String() string {
	switch m {
	case BrowseMode:
		return "browse"
	case AddMode:
		return "add"
	case EditMode:
		return "edit"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	engine  *tasks.Engine
	updates <-chan tasks.Update
	state   tasks.View
	mode    Mode
	cursor  int
	width   int
	height  int
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a TUI model over engine. updates must be the channel the engine was created with, or nil.
func NewModel(ctx context.Context, engine *tasks.Engine, updates <-chan tasks.Update) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.cursor

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 256
	input.Prompt = "› "

	return &Model{
		ctx:     ctx,
		engine:  engine,
		updates: updates,
		state:   engine.State(),
		mode:    BrowseMode,
		input:   input,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Init starts the spinner, the first load and the update listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(tasks.OpLoad, m.engine.Load), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.mode {
		case AddMode:
			return m.handleAddKeys(msg)
		case EditMode:
			return m.handleEditKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgEngineUpdate:
		m.sync()
		return m, m.waitForUpdate()
	case MsgOpDone:
		m.sync()
		if op, ok := msg.data.(tasks.Op); ok {
			m.settle(op)
		}
	case MsgUpdatesClosed:
		m.updates = nil
	}
	return m, nil
}

// settle moves between modes once an operation returns.
func (m *Model) settle(op tasks.Op) {
	switch op {
	case tasks.OpCreate:
		if m.mode == AddMode {
			m.input.SetValue(m.state.DraftTitle)
		}
	case tasks.OpRename:
		if m.mode == EditMode && m.state.EditingID == "" {
			m.leaveInput()
		}
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.reload):
		if !m.state.Loading {
			return m, m.run(tasks.OpLoad, m.engine.Load)
		}
	case key.Matches(msg, m.keys.add):
		m.mode = AddMode
		m.input.SetValue(m.state.DraftTitle)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.edit):
		id, ok := m.selectedID()
		if !ok || m.state.Renaming[id] || !m.engine.StartEdit(id) {
			return m, nil
		}
		m.sync()
		m.mode = EditMode
		m.input.SetValue(m.state.DraftEditTitle)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.toggle):
		if id, ok := m.selectedID(); ok && !m.state.Toggling[id] {
			return m, m.runID(tasks.OpToggle, m.engine.Toggle, id)
		}
	case key.Matches(msg, m.keys.remove):
		if id, ok := m.selectedID(); ok && !m.state.Deleting[id] {
			return m, m.runID(tasks.OpDelete, m.engine.Delete, id)
		}
	}
	return m, nil
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		m.leaveInput()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if m.state.Saving {
			return m, nil
		}
		m.engine.SetDraftTitle(m.input.Value())
		return m, m.run(tasks.OpCreate, m.engine.Create)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.engine.SetDraftTitle(m.input.Value())
	return m, cmd
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		m.engine.CancelEdit()
		m.sync()
		m.leaveInput()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		id := m.state.EditingID
		if id == "" || m.state.Renaming[id] {
			return m, nil
		}
		m.engine.SetDraftEditTitle(m.input.Value())
		return m, m.runID(tasks.OpRename, m.engine.SaveEdit, id)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.engine.SetDraftEditTitle(m.input.Value())
	return m, cmd
}

func (m *Model) leaveInput() {
	m.mode = BrowseMode
	m.input.Blur()
	m.input.Reset()
}

// sync re-reads engine state and keeps the cursor on a row.
func (m *Model) sync() {
	m.state = m.engine.State()
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedID() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return "", false
	}
	return m.state.Tasks[m.cursor].ID, true
}

// run executes an engine operation off the render loop.
func (m *Model) run(op tasks.Op, fn func(context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return opDoneMsg(op)
	}
}

func (m *Model) runID(op tasks.Op, fn func(context.Context, string), id string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx, id)
		return opDoneMsg(op)
	}
}

// waitForUpdate blocks on the engine's update channel; every update re-arms it.
func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return updatesClosedMsg()
		}
		return engineUpdateMsg(update)
	}
}

// View renders the task list, the input line, the error slot and contextual help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Tasks"))
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
	}

	if len(m.state.Tasks) == 0 && !m.state.Loading {
		b.WriteString(styles.help.Render(formatter.EmptyMessage))
		b.WriteString("\n")
	}

	for i, task := range m.state.Tasks {
		b.WriteString(m.renderRow(i, task.ID, task.Title, task.Completed))
		b.WriteString("\n")
	}

	if m.mode == AddMode {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		if m.state.Saving {
			b.WriteString(" " + m.spinner.View() + styles.pending.Render(" adding"))
		}
		b.WriteString("\n")
	}

	if m.state.Error != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render("Error: " + m.state.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == BrowseMode {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.inputHelp()))
	}

	return b.String()
}

func (m *Model) renderRow(i int, id, title string, completed bool) string {
	cursor := "  "
	if i == m.cursor && m.mode != AddMode {
		cursor = styles.cursor.Render("> ")
	}

	check := "[ ]"
	if completed {
		check = styles.ok.Render("[x]")
	}

	if m.mode == EditMode && m.state.IsEditing(id) {
		row := fmt.Sprintf("%s%s %s", cursor, check, m.input.View())
		if m.state.Renaming[id] {
			row += " " + m.spinner.View() + styles.pending.Render(" saving")
		}
		return row
	}

	text := title
	if completed {
		text = styles.done.Render(title)
	}

	var status string
	switch {
	case m.state.Deleting[id]:
		status = "deleting"
	case m.state.Toggling[id]:
		status = "updating"
	case m.state.Renaming[id]:
		status = "saving"
	}
	if status != "" {
		return fmt.Sprintf("%s%s %s %s", cursor, check, styles.pending.Render(title), styles.pending.Render(status+"..."))
	}

	return fmt.Sprintf("%s%s %s", cursor, check, text)
}
