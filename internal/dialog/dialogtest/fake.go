// Package dialogtest provides a scripted dialog.Dialog for controller tests.
package dialogtest

import (
	"context"
	"sync"
	"time"

	"pvctl/internal/dialog"
)

// Kind names a dialog type.
type Kind string

const (
	KindMenu      Kind = "menu"
	KindForm      Kind = "form"
	KindCheckList Kind = "checklist"
	KindYesNo     Kind = "yesno"
	KindMsgBox    Kind = "msgbox"
	KindInfoBox   Kind = "infobox"
	KindTextBox   Kind = "textbox"
	KindGauge     Kind = "gauge"
)

// Call records one dialog invocation.
type Call struct {
	Kind    Kind
	Title   string
	Text    string
	Choices []dialog.Choice
	Fields  []dialog.Field
	// Err is what a gauge returned.
	Err error
}

// Response is the scripted answer to an interactive dialog.
type Response struct {
	Code   dialog.Code
	Tag    string
	Values []string
	Err    error
}

// Select answers a menu with tag.
func Select(tag string) Response { return Response{Code: dialog.OK, Tag: tag} }

// Submit answers a form with values.
func Submit(values ...string) Response { return Response{Code: dialog.OK, Values: values} }

// Check answers a checklist with the given tags.
func Check(tags ...string) Response { return Response{Code: dialog.OK, Values: tags} }

// Yes answers a yes/no question with yes.
func Yes() Response { return Response{Code: dialog.OK} }

// No answers a yes/no question with no.
func No() Response { return Response{Code: dialog.Cancel} }

// Escape leaves any interactive dialog with Esc.
func Escape() Response { return Response{Code: dialog.Esc} }

// Fail makes the dialog itself fail.
func Fail(err error) Response { return Response{Code: dialog.Cancel, Err: err} }

// maxPolls bounds how often a fake gauge polls before giving up.
const maxPolls = 10000

// Fake replays scripted responses to Menu, Form, CheckList and YesNo in
// order. Once the script runs out every interactive dialog answers Esc.
// MsgBox, InfoBox, TextBox and Gauge never consume the script.
type Fake struct {
	mu     sync.Mutex
	script []Response
	calls  []Call
}

var _ dialog.Dialog = (*Fake)(nil)

// New returns a Fake that answers with script.
func New(script ...Response) *Fake {
	return &Fake{script: script}
}

// Push appends responses to the script.
func (f *Fake) Push(script ...Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, script...)
}

func (f *Fake) next(c Call) Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if len(f.script) == 0 {
		return Escape()
	}
	r := f.script[0]
	f.script = f.script[1:]
	return r
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Menu implements dialog.Dialog.
func (f *Fake) Menu(title, text string, choices []dialog.Choice) (dialog.Code, string, error) {
	r := f.next(Call{Kind: KindMenu, Title: title, Text: text, Choices: choices})
	return r.Code, r.Tag, r.Err
}

// Form implements dialog.Dialog.
func (f *Fake) Form(title, text string, fields []dialog.Field) (dialog.Code, []string, error) {
	r := f.next(Call{Kind: KindForm, Title: title, Text: text, Fields: fields})
	return r.Code, r.Values, r.Err
}

// CheckList implements dialog.Dialog.
func (f *Fake) CheckList(title, text string, choices []dialog.Choice) (dialog.Code, []string, error) {
	r := f.next(Call{Kind: KindCheckList, Title: title, Text: text, Choices: choices})
	return r.Code, r.Values, r.Err
}

// YesNo implements dialog.Dialog.
func (f *Fake) YesNo(title, text string) (dialog.Code, error) {
	r := f.next(Call{Kind: KindYesNo, Title: title, Text: text})
	return r.Code, r.Err
}

// MsgBox implements dialog.Dialog.
func (f *Fake) MsgBox(title, text string) error {
	f.record(Call{Kind: KindMsgBox, Title: title, Text: text})
	return nil
}

// InfoBox implements dialog.Dialog.
func (f *Fake) InfoBox(title, text string) error {
	f.record(Call{Kind: KindInfoBox, Title: title, Text: text})
	return nil
}

// TextBox implements dialog.Dialog.
func (f *Fake) TextBox(title, text string) error {
	f.record(Call{Kind: KindTextBox, Title: title, Text: text})
	return nil
}

// Gauge polls without waiting until the operation reports done.
func (f *Fake) Gauge(ctx context.Context, title, text string, _ time.Duration, poll dialog.PollFunc) error {
	var err error
	for i := 0; ; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		if i == maxPolls {
			err = context.DeadlineExceeded
			break
		}
		if p := poll(ctx); p.Done {
			err = p.Err
			break
		}
	}
	f.record(Call{Kind: KindGauge, Title: title, Text: text, Err: err})
	return err
}

// Calls returns every recorded invocation in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsOf returns the recorded invocations of one kind.
func (f *Fake) CallsOf(kind Kind) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Messages returns the texts of all message boxes shown.
func (f *Fake) Messages() []string {
	var out []string
	for _, c := range f.CallsOf(KindMsgBox) {
		out = append(out, c.Text)
	}
	return out
}

// Remaining reports how many scripted responses are unused.
func (f *Fake) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.script)
}
