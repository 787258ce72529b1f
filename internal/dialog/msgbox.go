package dialog

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// writeClipboard is a variable so tests can capture copies.
var writeClipboard = clipboard.WriteAll

// msgboxModel shows a block of text in a scrollable viewport. With copyable
// set the whole text can be copied to the system clipboard.
type msgboxModel struct {
	frame
	body     string
	copyable bool
	view     viewport.Model
	status   string
}

func newMsgBoxModel(title, text string, copyable bool, keys KeyMap) *msgboxModel {
	m := &msgboxModel{
		frame:    newFrame(title, "", keys),
		body:     strings.Trim(text, "\n"),
		copyable: copyable,
	}
	m.view = viewport.New(m.innerWidth(), m.viewHeight())
	m.view.SetContent(m.wrapped())
	return m
}

func (m *msgboxModel) wrapped() string {
	return lipgloss.NewStyle().Width(m.innerWidth()).Render(m.body)
}

// viewHeight fits the text but never exceeds the terminal.
func (m *msgboxModel) viewHeight() int {
	lines := lipgloss.Height(m.wrapped())
	if m.height == 0 {
		return min(lines, 20)
	}
	return max(1, min(lines, m.height-12))
}

func (m *msgboxModel) Init() tea.Cmd { return nil }

func (m *msgboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resize(msg) {
		m.view.Width = m.innerWidth()
		m.view.Height = m.viewHeight()
		m.view.SetContent(m.wrapped())
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Enter), key.Matches(keyMsg, m.keys.Esc), key.Matches(keyMsg, m.keys.Cancel):
			return m, tea.Quit
		case m.copyable && key.Matches(keyMsg, m.keys.Copy):
			if err := writeClipboard(m.body); err != nil {
				m.status = ErrorTextStyle.Render("Copy failed: " + err.Error())
			} else {
				m.status = SuccessTextStyle.Render("Copied to clipboard")
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *msgboxModel) View() string {
	body := m.view.View()
	if m.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.status)
	}
	return m.render(body, m.keys.msgboxHelp(m.copyable))
}
