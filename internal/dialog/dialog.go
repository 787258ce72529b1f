package dialog

import (
	"context"
	"errors"
	"time"
)

// Code is the termination code of a dialog.
type Code int

const (
	// OK means the user confirmed (Enter, Yes).
	OK Code = iota
	// Cancel means the user chose Cancel / No.
	Cancel
	// Esc means the user pressed Escape.
	Esc
)

// String makes Code satisfy the fmt.Stringer interface.
func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Cancel:
		return "CANCEL"
	case Esc:
		return "ESC"
	default:
		return "UNKNOWN"
	}
}

// Aborted reports whether the dialog was left without confirming.
func (c Code) Aborted() bool {
	return c == Cancel || c == Esc
}

// ErrAborted is returned by Form helpers when the user leaves without confirming.
var ErrAborted = errors.New("dialog aborted")

// Choice is one entry of a menu or checklist.
type Choice struct {
	Tag         string
	Description string
	// Checked is the initial state in a checklist.
	Checked bool
}

// Field is one entry of a form.
type Field struct {
	Label     string
	Value     string
	Masked    bool
	MaxLength int
	ReadOnly  bool
}

// Progress is a snapshot reported by a PollFunc.
type Progress struct {
	Percent int
	Done    bool
	// Err is the failure of the tracked operation, only meaningful when Done.
	Err error
}

// PollFunc reports the state of the operation a gauge tracks.
type PollFunc func(ctx context.Context) Progress

// Dialog is the set of blocking dialogs controllers build their screens from.
// Every call owns the terminal until it returns.
type Dialog interface {
	// Menu returns the tag of the selected choice when the code is OK.
	Menu(title, text string, choices []Choice) (Code, string, error)
	// Form returns the field values in field order.
	Form(title, text string, fields []Field) (Code, []string, error)
	// CheckList returns the checked tags in list order.
	CheckList(title, text string, choices []Choice) (Code, []string, error)
	YesNo(title, text string) (Code, error)
	MsgBox(title, text string) error
	// InfoBox draws a message and returns immediately.
	InfoBox(title, text string) error
	// TextBox shows scrollable, copyable text.
	TextBox(title, text string) error
	// Gauge polls every interval until the operation is done and returns its error.
	Gauge(ctx context.Context, title, text string, interval time.Duration, poll PollFunc) error
}
