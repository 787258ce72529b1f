package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// frame is the chrome shared by every dialog model: title, prompt text,
// help line and the terminal size used for centering.
type frame struct {
	title  string
	text   string
	width  int
	height int
	keys   KeyMap
	help   help.Model
}

func newFrame(title, text string, keys KeyMap) frame {
	return frame{
		title: title,
		text:  strings.Trim(text, "\n"),
		keys:  keys,
		help:  help.New(),
	}
}

// resize records the window size; it reports whether msg was a resize.
func (f *frame) resize(msg tea.Msg) bool {
	ws, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return false
	}
	f.width = ws.Width
	f.height = ws.Height
	f.help.Width = ws.Width
	return true
}

// innerWidth is the usable content width inside the box.
func (f frame) innerWidth() int {
	w := f.width - 2*SpaceSM - 2 - 4
	if f.width == 0 || w > 100 {
		w = 100
	}
	if w < minBoxWidth-2*SpaceSM-2 {
		w = minBoxWidth - 2*SpaceSM - 2
	}
	return w
}

// bodyHeight is the number of lines left for the body once the frame chrome
// is drawn, or 0 when the terminal size is not known yet.
func (f frame) bodyHeight(km bindings) int {
	if f.height == 0 {
		return 0
	}
	return max(1, f.height-lipgloss.Height(f.box("", km)))
}

func (f frame) render(body string, km bindings) string {
	box := f.box(body, km)
	if f.width == 0 || f.height == 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}

func (f frame) box(body string, km bindings) string {
	var parts []string
	if f.title != "" {
		parts = append(parts, TitleStyle.Render(truncate(f.title, f.innerWidth())))
	}
	if f.text != "" {
		parts = append(parts, TextStyle.Width(f.innerWidth()).Render(f.text))
	}
	if body != "" {
		parts = append(parts, body)
	}
	if km != nil {
		parts = append(parts, HelpStyle.Render(f.help.View(km)))
	}

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
