package widget

import (
	"context"
	"strings"

	"pvctl/internal/dialog"
	"pvctl/pkg/logging"
)

// LogWidget shows recent log entries in a scrollable, copyable text box.
type LogWidget struct {
	Dialog dialog.Dialog
	// Source returns the entries to show; nil means logging.Recent.
	Source func() []logging.LogEntry
}

// Display implements Controller.
func (w *LogWidget) Display(context.Context) error {
	source := w.Source
	if source == nil {
		source = logging.Recent
	}
	entries := source()
	if len(entries) == 0 {
		return w.Dialog.MsgBox("Logs", "No log entries yet")
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return w.Dialog.TextBox("Logs", strings.Join(lines, "\n"))
}
