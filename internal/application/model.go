// Package application is the terminal review screen: one address at a time,
// with its composed message, sent status and clipboard shortcuts.
package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/MailMerge/internal/core"
)

// Model drives one review session through core.Service.
type Model struct {
	service   *core.Service
	sessionID string
	copy      func(string) error

	state  *core.SessionState
	menu   *Menu
	cursor int
	help   help.Model

	up, down, enter key.Binding

	status string
	err    error
}

// New builds the review screen for an open session.
// copyFn writes to the clipboard; the CLI passes clipboard.WriteAll.
func New(service *core.Service, sessionID string, copyFn func(string) error) *Model {
	m := &Model{
		service:   service,
		sessionID: sessionID,
		copy:      copyFn,
		help:      help.New(),
		up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	}
	m.menu = buildMenu(m)
	return m
}

// Init loads the first snapshot.
func (m *Model) Init() tea.Cmd {
	return m.refresh("")
}

// Update handles key presses and action results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.down):
			if m.cursor < len(m.menu.Items)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.enter):
			return m, m.menu.Items[m.cursor].Action()
		}
		if item, ok := m.menu.match(msg); ok {
			return m, item.Action()
		}

	case stateMsg:
		m.state = msg.state
		m.status = msg.status
		m.err = nil

	case DoneMsg:
		m.status = string(msg)
		m.err = nil

	case ErrMsg:
		m.err = msg.Err
		m.status = ""
	}
	return m, nil
}

// View renders the current address, its message and the action menu.
func (m *Model) View() string {
	var b strings.Builder

	if m.state == nil {
		b.WriteString(titleStyle.Render("Mail Merge"))
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
		} else {
			b.WriteString(mutedStyle.Render("Loading..."))
		}
		return b.String()
	}

	st := m.state
	b.WriteString(titleStyle.Render("Mail Merge · " + st.FileName))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(statsLine(st.Result)))
	b.WriteString("\n\n")

	if st.Count == 0 {
		b.WriteString("No addresses found.\n")
	} else {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d · %d sent", st.Position, st.Count, st.SentCount)))
		b.WriteString("\n")
		b.WriteString(emailStyle.Render(st.Current))
		if st.IsSent {
			b.WriteString(" " + sentStyle.Render("✓ sent"))
		}
		b.WriteString("\n")
		if st.Name != "" {
			b.WriteString(mutedStyle.Render(st.Name) + "\n")
		}
		b.WriteString(messageStyle.Render(composedText(st.Composed)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, item := range m.menu.Items {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + item.Label))
		} else {
			b.WriteString("  " + item.Label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
	case m.status != "":
		b.WriteString(sentStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.menu.bindings()))
	return b.String()
}

func statsLine(r *core.Result) string {
	if r == nil {
		return ""
	}
	col := "none, scanned all cells"
	if r.HasColumn {
		col = r.DetectedColumn
	}
	return fmt.Sprintf("Total %d · Valid %d · Invalid %d · Duplicates %d · Empty %d · Column: %s",
		r.Stats.Total, r.Stats.Valid, r.Stats.Invalid, r.Stats.Duplicates, r.Stats.Empty, col)
}

// composedText is what "copy message" puts on the clipboard.
func composedText(t core.Template) string {
	return "Subject: " + t.Subject + "\n\n" + t.Body
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (m *Model) refresh(status string) tea.Cmd {
	service, id := m.service, m.sessionID
	return func() tea.Msg {
		state, err := service.State(context.Background(), id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return stateMsg{state: state, status: status}
	}
}

// move runs a cursor change on the session, then reloads the snapshot.
func (m *Model) move(step func(*core.Session) bool, atEdge string) tea.Cmd {
	sess, err := m.service.Session(m.sessionID)
	if err != nil {
		return func() tea.Msg { return ErrMsg{Err: err} }
	}
	status := ""
	if !step(sess) {
		status = atEdge
	}
	return m.refresh(status)
}

func (m *Model) next() tea.Cmd {
	return m.move((*core.Session).Next, "Last address")
}

func (m *Model) prev() tea.Cmd {
	return m.move((*core.Session).Prev, "First address")
}

func (m *Model) nextUnsent() tea.Cmd {
	service, id := m.service, m.sessionID
	return func() tea.Msg {
		moved, err := service.NextUnsent(context.Background(), id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		status := ""
		if !moved {
			status = "Every address has been sent"
		}
		return m.refresh(status)()
	}
}

func (m *Model) toggleSent() tea.Cmd {
	service, id := m.service, m.sessionID
	return func() tea.Msg {
		sent, err := service.ToggleSent(context.Background(), id)
		if err != nil {
			return ErrMsg{Err: err}
		}
		status := "Marked unsent"
		if sent {
			status = "Marked sent"
		}
		return m.refresh(status)()
	}
}

// copyCurrent copies a piece of the current snapshot to the clipboard.
func (m *Model) copyCurrent(what string, pick func(*core.SessionState) string) tea.Cmd {
	st, write := m.state, m.copy
	return func() tea.Msg {
		if st == nil || st.Count == 0 {
			return ErrMsg{Err: core.ErrNoEmails}
		}
		if err := write(pick(st)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copy %s: %w", what, err)}
		}
		return DoneMsg("Copied " + what)
	}
}

func (m *Model) copyMessage() tea.Cmd {
	return m.copyCurrent("message", func(st *core.SessionState) string { return composedText(st.Composed) })
}

func (m *Model) copyEmail() tea.Cmd {
	return m.copyCurrent("email", func(st *core.SessionState) string { return st.Current })
}

func (m *Model) copyBody() tea.Cmd {
	return m.copyCurrent("body", func(st *core.SessionState) string { return st.Composed.Body })
}
