package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// checklistModel is a multi-choice list with toggleable entries.
type checklistModel struct {
	frame
	choices []Choice
	checked []bool
	cursor  int
	code    Code
	scroll  scroller
}

func newChecklistModel(title, text string, choices []Choice, keys KeyMap) *checklistModel {
	m := &checklistModel{
		frame:   newFrame(title, text, keys),
		choices: choices,
		checked: make([]bool, len(choices)),
		code:    Esc,
		scroll:  newScroller(),
	}
	for i, c := range choices {
		m.checked[i] = c.Checked
	}
	return m
}

func (m *checklistModel) Init() tea.Cmd { return nil }

func (m *checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resize(msg) {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.choices) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case key.Matches(keyMsg, m.keys.Enter):
		m.code = OK
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

// selected returns the checked tags in list order.
func (m *checklistModel) selected() []string {
	var tags []string
	for i, c := range m.choices {
		if m.checked[i] {
			tags = append(tags, c.Tag)
		}
	}
	return tags
}

func (m *checklistModel) View() string {
	rows := make([]string, len(m.choices))
	for i, c := range m.choices {
		box := "[ ]"
		if m.checked[i] {
			box = "[x]"
		}
		line := box + " " + TagStyle.Render(c.Tag)
		if c.Description != "" {
			line += "  " + truncate(c.Description, m.innerWidth()-len(c.Tag)-8)
		}
		if i == m.cursor {
			rows[i] = ItemSelectedStyle.Render("> " + line)
		} else {
			rows[i] = ItemStyle.Render("  " + line)
		}
	}
	km := m.keys.checklistHelp()
	return m.render(m.scroll.render(rows, m.cursor, m.bodyHeight(km)), km)
}
