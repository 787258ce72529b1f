package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// scroller shows a window of list rows that always contains the cursor row.
// Rows may span several lines.
type scroller struct {
	view viewport.Model
}

func newScroller() scroller {
	return scroller{view: viewport.New(0, 0)}
}

// render returns the rows that fit in height lines. A height of 0 means the
// terminal size is unknown and every row is drawn.
func (s *scroller) render(rows []string, cursor, height int) string {
	content := strings.Join(rows, "\n")
	if height <= 0 || lipgloss.Height(content) <= height || len(rows) == 0 {
		s.view.SetYOffset(0)
		return content
	}

	cursor = min(max(cursor, 0), len(rows)-1)
	top := 0
	for _, r := range rows[:cursor] {
		top += lipgloss.Height(r)
	}
	bottom := top + lipgloss.Height(rows[cursor])

	s.view.Height = height
	s.view.SetContent(content)
	switch {
	case top < s.view.YOffset:
		s.view.SetYOffset(top)
	case bottom > s.view.YOffset+height:
		s.view.SetYOffset(bottom - height)
	}
	return s.view.View()
}
