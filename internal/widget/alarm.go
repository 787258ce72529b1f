package widget

import (
	"context"
	"fmt"

	"pvctl/internal/vsphere"
)

// AlarmWidget shows the triggered alarms of an entity.
type AlarmWidget struct {
	env    *Env
	entity vsphere.Entity
}

// NewAlarmWidget creates an AlarmWidget.
func NewAlarmWidget(env *Env, entity vsphere.Entity) *AlarmWidget {
	return &AlarmWidget{env: env, entity: entity}
}

// Display implements Controller.
func (w *AlarmWidget) Display(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.entity.Name, retrievingText); err != nil {
		return err
	}
	alarms, err := w.env.API.TriggeredAlarms(ctx, w.entity.Ref)
	if err != nil {
		return w.env.fail(w.entity.Name, err)
	}
	if len(alarms) == 0 {
		return w.env.Dialog.MsgBox(w.entity.Name, "No triggered alarms")
	}

	elements := make([]FormElement, len(alarms))
	for i, a := range alarms {
		value := fmt.Sprintf("%s  %s", a.Status, a.Time.Local().Format("2006-01-02 15:04:05"))
		if a.Acknowledged {
			value += "  (acknowledged)"
		}
		elements[i] = FormElement{Label: a.Name, Value: value}
	}
	return w.env.showReadOnly(ctx, w.entity.Name, "Triggered alarms", elements)
}
