package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type progressMsg Progress

type pollTickMsg struct{}

// gaugeModel polls an operation and draws a progress bar until it is done.
// Keys are ignored; the gauge only ends when the operation does.
type gaugeModel struct {
	frame
	ctx      context.Context
	interval time.Duration
	poll     PollFunc
	bar      progress.Model
	spinner  spinner.Model
	last     Progress
}

func newGaugeModel(ctx context.Context, title, text string, interval time.Duration, poll PollFunc, keys KeyMap) *gaugeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	return &gaugeModel{
		frame:    newFrame(title, text, keys),
		ctx:      ctx,
		interval: interval,
		poll:     poll,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  s,
	}
}

func (m *gaugeModel) pollCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.ctx.Err(); err != nil {
			return progressMsg{Percent: m.last.Percent, Done: true, Err: err}
		}
		return progressMsg(m.poll(m.ctx))
	}
}

func (m *gaugeModel) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.spinner.Tick)
}

func (m *gaugeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resize(msg) {
		m.bar.Width = m.innerWidth() - 6
		return m, nil
	}
	switch msg := msg.(type) {
	case progressMsg:
		m.last = Progress(msg)
		if m.last.Done {
			return m, tea.Quit
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return pollTickMsg{} })
	case pollTickMsg:
		return m, m.pollCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// percent clamps the last reported percentage to 0..100.
func (m *gaugeModel) percent() int {
	return max(0, min(100, m.last.Percent))
}

func (m *gaugeModel) View() string {
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		m.spinner.View(), " ",
		m.bar.ViewAs(float64(m.percent())/100),
		fmt.Sprintf(" %3d%%", m.percent()),
	)
	return m.render(line, nil)
}
