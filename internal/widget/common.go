package widget

import (
	"context"
	"fmt"
	"time"

	"pvctl/internal/dialog"
	"pvctl/internal/vsphere"
	"pvctl/pkg/logging"
)

const retrievingText = "Retrieving information ..."

// Env is what every controller needs to talk to the user and the server.
type Env struct {
	API    vsphere.API
	Dialog dialog.Dialog
	// PollInterval is how often task gauges refresh.
	PollInterval time.Duration
}

// fail logs err and reports it to the user. The returned error is only
// non-nil when the message box itself failed.
func (e *Env) fail(title string, err error) error {
	logging.Error(subsystem, err, "%s", title)
	return e.Dialog.MsgBox(title, err.Error())
}

// runTask submits a remote operation and tracks it with a gauge. It reports
// whether the task succeeded.
func (e *Env) runTask(ctx context.Context, title, text string, submit func(ctx context.Context) (vsphere.Task, error)) (bool, error) {
	task, err := submit(ctx)
	if err != nil {
		return false, e.fail(title, err)
	}
	gauge := &TaskGauge{
		Dialog:   e.Dialog,
		Title:    title,
		Text:     text,
		Task:     task,
		Interval: e.PollInterval,
	}
	if err := gauge.Display(ctx); err != nil {
		return false, err
	}
	return gauge.Err == nil, nil
}

// showReadOnly displays elements as a form nothing can be typed into.
func (e *Env) showReadOnly(ctx context.Context, title, text string, elements []FormElement) error {
	for i := range elements {
		elements[i].ReadOnly = true
	}
	form := &Form{Dialog: e.Dialog, Title: title, Text: text, Elements: elements}
	_, _, err := form.Display(ctx)
	return err
}

// rename asks for a new name and renames entity.
func (e *Env) rename(ctx context.Context, entity vsphere.Entity, text string) error {
	form := &Form{
		Dialog: e.Dialog,
		Title:  entity.Name,
		Text:   text,
		Elements: []FormElement{
			{Label: "Name", Value: entity.Name},
		},
	}
	code, fields, err := form.Display(ctx)
	if err != nil || code != dialog.OK {
		return err
	}
	name := fields["Name"]
	if name == "" {
		return e.Dialog.MsgBox("Error", "Invalid input provided")
	}
	if name == entity.Name {
		return nil
	}

	_, err = e.runTask(ctx, entity.Name, fmt.Sprintf("Renaming %s to %s ...", entity.Name, name),
		func(ctx context.Context) (vsphere.Task, error) {
			return e.API.Rename(ctx, entity.Ref, name)
		})
	return err
}

// hostMenu lists the hosts of a cluster, each opening a HostWidget.
func (e *Env) hostMenu(cluster vsphere.Entity) *Menu {
	return &Menu{
		Dialog: e.Dialog,
		Title:  cluster.Name,
		Text:   "Select a host from the list",
		Load: func(ctx context.Context) ([]MenuItem, error) {
			hosts, err := e.API.ClusterHosts(ctx, cluster.Ref)
			if err != nil {
				return nil, err
			}
			items := make([]MenuItem, len(hosts))
			for i, h := range hosts {
				items[i] = MenuItem{
					Tag:         h.Name,
					Description: string(h.ConnectionState),
					Action:      Navigate{Target: NewHostWidget(e, vsphere.Entity{Ref: h.Ref, Name: h.Name})},
				}
			}
			return items, nil
		},
	}
}
