package dialog

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Terminal implements Dialog by running one short-lived bubbletea program
// per call.
type Terminal struct {
	in        io.Reader
	out       io.Writer
	altScreen bool
	keys      KeyMap
}

var _ Dialog = (*Terminal)(nil)

// Option configures a Terminal.
type Option func(*Terminal)

// WithInput reads key presses from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(t *Terminal) { t.in = r }
}

// WithOutput renders to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) { t.out = w }
}

// WithAltScreen draws dialogs on the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(t *Terminal) { t.altScreen = enabled }
}

// NewTerminal creates a Terminal drawing to stdout.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{
		out:  os.Stdout,
		keys: DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// run blocks until the model quits and returns the final model.
func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithOutput(t.out)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("running dialog: %w", err)
	}
	return final, nil
}

// Menu implements Dialog.
func (t *Terminal) Menu(title, text string, choices []Choice) (Code, string, error) {
	final, err := t.run(newMenuModel(title, text, choices, t.keys))
	if err != nil {
		return Cancel, "", err
	}
	m := final.(*menuModel)
	if m.code != OK {
		return m.code, "", nil
	}
	return OK, m.selected(), nil
}

// Form implements Dialog.
func (t *Terminal) Form(title, text string, fields []Field) (Code, []string, error) {
	final, err := t.run(newFormModel(title, text, fields, t.keys))
	if err != nil {
		return Cancel, nil, err
	}
	m := final.(*formModel)
	if m.code != OK {
		return m.code, nil, nil
	}
	return OK, m.values(), nil
}

// CheckList implements Dialog.
func (t *Terminal) CheckList(title, text string, choices []Choice) (Code, []string, error) {
	final, err := t.run(newChecklistModel(title, text, choices, t.keys))
	if err != nil {
		return Cancel, nil, err
	}
	m := final.(*checklistModel)
	if m.code != OK {
		return m.code, nil, nil
	}
	return OK, m.selected(), nil
}

// YesNo implements Dialog.
func (t *Terminal) YesNo(title, text string) (Code, error) {
	final, err := t.run(newYesNoModel(title, text, t.keys))
	if err != nil {
		return Cancel, err
	}
	return final.(*yesnoModel).code, nil
}

// MsgBox implements Dialog.
func (t *Terminal) MsgBox(title, text string) error {
	_, err := t.run(newMsgBoxModel(title, text, false, t.keys))
	return err
}

// TextBox implements Dialog.
func (t *Terminal) TextBox(title, text string) error {
	_, err := t.run(newMsgBoxModel(title, text, true, t.keys))
	return err
}

// InfoBox implements Dialog. It draws once without taking over input.
func (t *Terminal) InfoBox(title, text string) error {
	f := newFrame(title, text, t.keys)
	if file, ok := t.out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if w, h, err := term.GetSize(int(file.Fd())); err == nil {
			f.width, f.height = w, h
		}
		if _, err := io.WriteString(t.out, "\x1b[2J\x1b[H"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(t.out, f.render("", nil)+"\n")
	return err
}

// Gauge implements Dialog.
func (t *Terminal) Gauge(ctx context.Context, title, text string, interval time.Duration, poll PollFunc) error {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	final, err := t.run(newGaugeModel(ctx, title, text, interval, poll, t.keys))
	if err != nil {
		return err
	}
	return final.(*gaugeModel).last.Err
}
