package dialog

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// menuModel is a single-choice list of tag/description pairs.
type menuModel struct {
	frame
	choices []Choice
	cursor  int
	code    Code
	scroll  scroller
}

func newMenuModel(title, text string, choices []Choice, keys KeyMap) *menuModel {
	return &menuModel{
		frame:   newFrame(title, text, keys),
		choices: choices,
		code:    Esc,
		scroll:  newScroller(),
	}
}

func (m *menuModel) Init() tea.Cmd { return nil }

func (m *menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case key.Matches(keyMsg, m.keys.Enter):
		if len(m.choices) == 0 {
			return m, nil
		}
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

// selected returns the tag under the cursor.
func (m *menuModel) selected() string {
	if len(m.choices) == 0 {
		return ""
	}
	return m.choices[m.cursor].Tag
}

func (m *menuModel) View() string {
	tagWidth := 0
	for _, c := range m.choices {
		if len(c.Tag) > tagWidth {
			tagWidth = len(c.Tag)
		}
	}

	rows := make([]string, len(m.choices))
	for i, c := range m.choices {
		tag := fmt.Sprintf("%-*s", tagWidth, c.Tag)
		desc := truncate(c.Description, m.innerWidth()-tagWidth-4)
		if i == m.cursor {
			rows[i] = ItemSelectedStyle.Render("> " + TagStyle.Render(tag) + "  " + desc)
		} else {
			rows[i] = ItemStyle.Render("  " + tag + "  " + DescriptionStyle.Render(desc))
		}
	}
	km := m.keys.menuHelp()
	return m.render(m.scroll.render(rows, m.cursor, m.bodyHeight(km)), km)
}
