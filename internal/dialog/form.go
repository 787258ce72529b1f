package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formModel is a list of labelled text inputs.
type formModel struct {
	frame
	fields []Field
	inputs []textinput.Model
	focus  int
	row    int
	code   Code
	scroll scroller
}

func newFormModel(title, text string, fields []Field, keys KeyMap) *formModel {
	m := &formModel{
		frame:  newFrame(title, text, keys),
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		focus:  -1,
		code:   Esc,
		scroll: newScroller(),
	}
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.SetValue(f.Value)
		if f.MaxLength > 0 {
			ti.CharLimit = f.MaxLength
		}
		if f.Masked {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		m.inputs[i] = ti
	}
	m.focusNext(1)
	return m
}

// focusNext moves focus by step, skipping read-only fields. It reports
// false when every field is read-only.
func (m *formModel) focusNext(step int) bool {
	n := len(m.inputs)
	if n == 0 {
		return false
	}
	start := m.focus
	for i := 1; i <= n; i++ {
		idx := ((start+step*i)%n + n) % n
		if m.fields[idx].ReadOnly {
			continue
		}
		if m.focus >= 0 {
			m.inputs[m.focus].Blur()
		}
		m.focus = idx
		m.row = idx
		m.inputs[idx].Focus()
		return true
	}
	return false
}

// move steps focus, or the visible row when every field is read-only.
func (m *formModel) move(step int) {
	if !m.focusNext(step) {
		m.row = min(max(m.row+step, 0), max(len(m.fields)-1, 0))
	}
}

func (m *formModel) Init() tea.Cmd { return textinput.Blink }

func (m *formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resize(msg) {
		for i := range m.inputs {
			m.inputs[i].Width = m.innerWidth() - m.labelWidth() - 2
		}
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Enter):
			m.code = OK
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Esc):
			m.code = Esc
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Cancel):
			m.code = Cancel
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Next):
			m.move(1)
			return m, nil
		case key.Matches(keyMsg, m.keys.Prev):
			m.move(-1)
			return m, nil
		}
	}
	if m.focus < 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// values returns the current field values in field order.
func (m *formModel) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = in.Value()
	}
	return out
}

func (m *formModel) labelWidth() int {
	w := 0
	for _, f := range m.fields {
		w = max(w, lipgloss.Width(f.Label))
	}
	return w + 1
}

func (m *formModel) View() string {
	lw := m.labelWidth()
	rows := make([]string, 0, len(m.fields))
	for i, f := range m.fields {
		label := LabelStyle.Width(lw).Render(f.Label + ":")
		var value string
		switch {
		case f.ReadOnly:
			value = DescriptionStyle.Render(f.Value)
		case i == m.focus:
			value = InputFocusedStyle.Render(m.inputs[i].View())
		default:
			value = InputStyle.Render(m.inputs[i].View())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", value))
	}
	km := m.keys.formHelp()
	return m.render(m.scroll.render(rows, m.row, m.bodyHeight(km)), km)
}
