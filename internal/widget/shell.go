package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pvctl/internal/dialog"
	"pvctl/internal/vsphere"
	"pvctl/pkg/logging"
)

const subsystem = "Widget"

// Controller is a screen bound to a managed object. Display returns when the
// user leaves the screen.
type Controller interface {
	Display(ctx context.Context) error
}

// Action is what a menu item does when selected.
type Action interface {
	Select(ctx context.Context) error
}

// Navigate opens another controller.
type Navigate struct {
	Target Controller
}

// Select implements Action.
func (n Navigate) Select(ctx context.Context) error {
	return n.Target.Display(ctx)
}

// Invoke runs a function.
type Invoke struct {
	Fn func(ctx context.Context) error
}

// Select implements Action.
func (i Invoke) Select(ctx context.Context) error {
	return i.Fn(ctx)
}

// MenuItem is one selectable entry of a Menu.
type MenuItem struct {
	Tag         string
	Description string
	Action      Action
}

// Menu shows items until the user cancels. When Load is set the items are
// rebuilt from it before every display.
type Menu struct {
	Dialog dialog.Dialog
	Title  string
	Text   string
	Items  []MenuItem
	Load   func(ctx context.Context) ([]MenuItem, error)
}

// Display runs the menu loop. An error returned by an action ends the loop.
func (m *Menu) Display(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Load != nil {
			items, err := m.Load(ctx)
			if err != nil {
				return m.Dialog.MsgBox(m.Title, err.Error())
			}
			m.Items = items
		}

		choices := make([]dialog.Choice, len(m.Items))
		for i, item := range m.Items {
			choices[i] = dialog.Choice{Tag: item.Tag, Description: item.Description}
		}
		code, tag, err := m.Dialog.Menu(m.Title, m.Text, choices)
		if err != nil {
			return err
		}
		if code.Aborted() {
			return nil
		}

		item, ok := m.find(tag)
		if !ok || item.Action == nil {
			continue
		}
		if err := item.Action.Select(ctx); err != nil {
			return err
		}
	}
}

func (m *Menu) find(tag string) (MenuItem, bool) {
	for _, item := range m.Items {
		if item.Tag == tag {
			return item, true
		}
	}
	return MenuItem{}, false
}

// FormElement is one labelled field of a Form.
type FormElement struct {
	Label     string
	Value     string
	Masked    bool
	MaxLength int
	ReadOnly  bool
}

// Form is an ordered list of fields.
type Form struct {
	Dialog   dialog.Dialog
	Title    string
	Text     string
	Elements []FormElement
}

// Display shows the form and maps the entered values by label. The map is
// nil unless the code is OK.
func (f *Form) Display(ctx context.Context) (dialog.Code, map[string]string, error) {
	fields := make([]dialog.Field, len(f.Elements))
	for i, e := range f.Elements {
		fields[i] = dialog.Field{
			Label:     e.Label,
			Value:     e.Value,
			Masked:    e.Masked,
			MaxLength: e.MaxLength,
			ReadOnly:  e.ReadOnly,
		}
	}
	code, values, err := f.Dialog.Form(f.Title, f.Text, fields)
	if err != nil || code != dialog.OK {
		return code, nil, err
	}

	out := make(map[string]string, len(f.Elements))
	for i, e := range f.Elements {
		if i < len(values) {
			out[e.Label] = values[i]
		} else {
			out[e.Label] = ""
		}
	}
	return code, out, nil
}

// allSet reports whether every value of fields is non-empty.
func allSet(fields map[string]string) bool {
	for _, v := range fields {
		if v == "" {
			return false
		}
	}
	return true
}

// CheckListItem is one entry of a CheckList.
type CheckListItem struct {
	Tag         string
	Description string
	Checked     bool
}

// CheckList is a multi-select list.
type CheckList struct {
	Dialog dialog.Dialog
	Title  string
	Text   string
	Items  []CheckListItem

	selected []string
}

// Display shows the checklist and records the selection.
func (c *CheckList) Display(ctx context.Context) (dialog.Code, error) {
	c.selected = nil
	choices := make([]dialog.Choice, len(c.Items))
	for i, item := range c.Items {
		choices[i] = dialog.Choice{Tag: item.Tag, Description: item.Description, Checked: item.Checked}
	}
	code, tags, err := c.Dialog.CheckList(c.Title, c.Text, choices)
	if err != nil {
		return code, err
	}
	if code == dialog.OK {
		c.selected = tags
	}
	return code, nil
}

// Selected returns the tags checked on the last confirmed display.
func (c *CheckList) Selected() []string {
	return c.selected
}

// TaskGauge tracks a remote task until it reaches a terminal state.
type TaskGauge struct {
	Dialog   dialog.Dialog
	Title    string
	Text     string
	Task     vsphere.Task
	Interval time.Duration

	// Err is the failure of the task after Display, if any.
	Err error
}

// Display polls the task. A failed task is shown in a message box and kept
// in Err; only dialog failures are returned.
func (g *TaskGauge) Display(ctx context.Context) error {
	var taskErr error
	poll := func(ctx context.Context) dialog.Progress {
		info, err := g.Task.Info(ctx)
		if err != nil {
			taskErr = fmt.Errorf("polling task: %w", err)
			return dialog.Progress{Done: true, Err: taskErr}
		}
		p := dialog.Progress{Percent: info.Progress, Done: info.State.Terminal()}
		if info.State == vsphere.TaskStateError {
			taskErr = info.Err
			if taskErr == nil {
				taskErr = &vsphere.TaskError{Message: "unknown error"}
			}
			p.Err = taskErr
		}
		return p
	}

	err := g.Dialog.Gauge(ctx, g.Title, g.Text, g.Interval, poll)
	if taskErr != nil {
		g.Err = taskErr
		logging.Error(subsystem, taskErr, "task %q failed", strings.TrimSpace(g.Text))
		return g.Dialog.MsgBox(g.Title, taskErr.Error())
	}
	return err
}
