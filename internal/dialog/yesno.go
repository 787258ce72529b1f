package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// yesnoModel asks a yes/no question. "No" is reported as Cancel.
type yesnoModel struct {
	frame
	yes  bool
	code Code
}

func newYesNoModel(title, text string, keys KeyMap) *yesnoModel {
	return &yesnoModel{
		frame: newFrame(title, text, keys),
		yes:   true,
		code:  Esc,
	}
}

func (m *yesnoModel) Init() tea.Cmd { return nil }

func (m *yesnoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resize(msg) {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.code = OK
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.code = Cancel
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Left), key.Matches(keyMsg, m.keys.Right), key.Matches(keyMsg, m.keys.Next):
		m.yes = !m.yes
	case key.Matches(keyMsg, m.keys.Enter):
		if m.yes {
			m.code = OK
		} else {
			m.code = Cancel
		}
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Esc):
		m.code = Esc
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Cancel):
		m.code = Cancel
		return m, tea.Quit
	}
	return m, nil
}

func (m *yesnoModel) View() string {
	yes, no := ButtonSecondaryStyle, ButtonSecondaryStyle
	if m.yes {
		yes = ButtonStyle
	} else {
		no = ButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), "  ", no.Render("No"))
	return m.render(buttons, m.keys.yesNoHelp())
}
