package application

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	ACTION MENU
---------------------------------------- */

// MenuItem is one review action, reachable by its shortcut or by selecting it.
type MenuItem struct {
	Label   string
	Binding key.Binding
	Action  func() tea.Cmd
}

// Menu is the flat list of actions shown beside the current address.
type Menu struct {
	Title string
	Items []MenuItem
}

// match returns the item bound to msg.
func (m *Menu) match(msg tea.KeyMsg) (MenuItem, bool) {
	for _, item := range m.Items {
		if key.Matches(msg, item.Binding) {
			return item, true
		}
	}
	return MenuItem{}, false
}

// bindings lists every item binding for the help view.
func (m *Menu) bindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.Items))
	for _, item := range m.Items {
		out = append(out, item.Binding)
	}
	return out
}

/* ----------------------------------------
	MENU DEFINITION
---------------------------------------- */

func buildMenu(m *Model) *Menu {
	return &Menu{
		Title: "Actions",
		Items: []MenuItem{
			{
				Label:   "Next",
				Binding: key.NewBinding(key.WithKeys("right", "n", "j"), key.WithHelp("→/n/j", "next")),
				Action:  m.next,
			},
			{
				Label:   "Previous",
				Binding: key.NewBinding(key.WithKeys("left", "p", "k"), key.WithHelp("←/p/k", "prev")),
				Action:  m.prev,
			},
			{
				Label:   "Next unsent",
				Binding: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "next unsent")),
				Action:  m.nextUnsent,
			},
			{
				Label:   "Toggle sent",
				Binding: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sent")),
				Action:  m.toggleSent,
			},
			{
				Label:   "Copy message",
				Binding: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy message")),
				Action:  m.copyMessage,
			},
			{
				Label:   "Copy email",
				Binding: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "copy email")),
				Action:  m.copyEmail,
			},
			{
				Label:   "Copy body",
				Binding: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "copy body")),
				Action:  m.copyBody,
			},
			{
				Label:   "Quit",
				Binding: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
				Action:  func() tea.Cmd { return tea.Quit },
			},
		},
	}
}
