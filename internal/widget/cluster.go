package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"pvctl/internal/dialog"
	"pvctl/internal/vsphere"
)

const resourcesNotImplemented = "Not implemented yet.\n" +
	"See https://github.com/vmware/pyvmomi/issues/229 for more information.\n"

// ClusterWidget is the top-level screen of a cluster.
type ClusterWidget struct {
	env     *Env
	cluster vsphere.Entity
}

// NewClusterWidget creates a ClusterWidget.
func NewClusterWidget(env *Env, cluster vsphere.Entity) *ClusterWidget {
	return &ClusterWidget{env: env, cluster: cluster}
}

// Display implements Controller.
func (w *ClusterWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.cluster.Name,
		Items: []MenuItem{
			{Tag: "Summary", Description: "General information", Action: Invoke{Fn: w.summary}},
			{Tag: "Resources", Description: "Resource usage information", Action: Invoke{Fn: w.resources}},
			{Tag: "Actions", Description: "Available Actions", Action: Navigate{Target: NewClusterActionWidget(w.env, w.cluster)}},
			{Tag: "Hosts", Description: "Manage hosts in cluster", Action: Navigate{Target: NewClusterHostWidget(w.env, w.cluster)}},
			{Tag: "Networks", Description: "Networking", Action: Navigate{Target: NewNetworkWidget(w.env, w.cluster)}},
			{Tag: "Performance", Description: "Performance Metrics", Action: Navigate{Target: NewPerformanceWidget(w.env, w.cluster)}},
			{Tag: "Alarms", Description: "View triggered alarms", Action: Navigate{Target: NewAlarmWidget(w.env, w.cluster)}},
		},
	}
	return menu.Display(ctx)
}

func (w *ClusterWidget) summary(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.cluster.Name, retrievingText); err != nil {
		return err
	}
	s, err := w.env.API.ClusterSummary(ctx, w.cluster.Ref)
	if err != nil {
		return w.env.fail(w.cluster.Name, err)
	}
	return w.env.showReadOnly(ctx, w.cluster.Name, "", clusterSummaryElements(s))
}

func clusterSummaryElements(s vsphere.ClusterSummary) []FormElement {
	return []FormElement{
		{Label: "Hosts", Value: strconv.Itoa(int(s.NumHosts))},
		{Label: "vMotion Migrations", Value: strconv.Itoa(int(s.NumVmotions))},
		{Label: "Total CPU Cores", Value: strconv.Itoa(int(s.NumCPUCores))},
		{Label: "Total CPU Threads", Value: strconv.Itoa(int(s.NumCPUThreads))},
		{Label: "Total CPU Resources", Value: fmt.Sprintf("%d MHz", s.TotalCPUMHz)},
		{Label: "Total Memory", Value: humanize.IBytes(uint64(max(s.TotalMemory, 0)))},
		{Label: "Overall Status", Value: s.OverallStatus},
	}
}

func (w *ClusterWidget) resources(context.Context) error {
	return w.env.Dialog.MsgBox(w.cluster.Name, resourcesNotImplemented)
}

// ClusterActionWidget lists the actions available on a cluster.
type ClusterActionWidget struct {
	env     *Env
	cluster vsphere.Entity
}

// NewClusterActionWidget creates a ClusterActionWidget.
func NewClusterActionWidget(env *Env, cluster vsphere.Entity) *ClusterActionWidget {
	return &ClusterActionWidget{env: env, cluster: cluster}
}

// Display implements Controller.
func (w *ClusterActionWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.cluster.Name,
		Items: []MenuItem{
			{Tag: "Rename", Description: "Rename cluster", Action: Invoke{Fn: func(ctx context.Context) error {
				return w.env.rename(ctx, w.cluster, "New cluster name?")
			}}},
		},
	}
	return menu.Display(ctx)
}

// ClusterHostWidget manages the hosts of a cluster.
type ClusterHostWidget struct {
	env     *Env
	cluster vsphere.Entity
}

// NewClusterHostWidget creates a ClusterHostWidget.
func NewClusterHostWidget(env *Env, cluster vsphere.Entity) *ClusterHostWidget {
	return &ClusterHostWidget{env: env, cluster: cluster}
}

// Display implements Controller.
func (w *ClusterHostWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.cluster.Name,
		Items: []MenuItem{
			{Tag: "Connect", Description: "Connect host to cluster", Action: Invoke{Fn: w.connect}},
			{Tag: "Disconnect", Description: "Disconnect host(s) from cluster", Action: Invoke{Fn: w.disconnect}},
			{Tag: "Reconnect", Description: "Reconnect host(s) to cluster", Action: Invoke{Fn: w.reconnect}},
			{Tag: "View", Description: "View hosts in cluster", Action: Navigate{Target: w.env.hostMenu(w.cluster)}},
		},
	}
	return menu.Display(ctx)
}

func (w *ClusterHostWidget) connect(ctx context.Context) error {
	form := &Form{
		Dialog: w.env.Dialog,
		Title:  "Connect host to cluster",
		Text:   fmt.Sprintf("Enter hostname or IP address of the host to be connected to cluster %s", w.cluster.Name),
		Elements: []FormElement{
			{Label: "Hostname"},
			{Label: "SSL Thumbprint"},
			{Label: "Username"},
			{Label: "Password", Masked: true},
		},
	}
	code, fields, err := form.Display(ctx)
	if err != nil || code != dialog.OK {
		return err
	}
	if !allSet(fields) {
		return w.env.Dialog.MsgBox("Error", "Invalid input provided")
	}

	spec := vsphere.HostConnectSpec{
		HostName:      fields["Hostname"],
		SSLThumbprint: fields["SSL Thumbprint"],
		UserName:      fields["Username"],
		Password:      fields["Password"],
	}
	_, err = w.env.runTask(ctx, w.cluster.Name, fmt.Sprintf("Connecting %s to cluster ...", spec.HostName),
		func(ctx context.Context) (vsphere.Task, error) {
			return w.env.API.AddHost(ctx, w.cluster.Ref, spec)
		})
	return err
}

// hostsIn returns the cluster hosts in the given connection state.
func (w *ClusterHostWidget) hostsIn(ctx context.Context, state vsphere.ConnectionState) ([]vsphere.Host, error) {
	hosts, err := w.env.API.ClusterHosts(ctx, w.cluster.Ref)
	if err != nil {
		return nil, err
	}
	var out []vsphere.Host
	for _, h := range hosts {
		if h.ConnectionState == state {
			out = append(out, h)
		}
	}
	return out, nil
}

// pick shows hosts in a checklist and returns the checked ones in selection order.
func (w *ClusterHostWidget) pick(ctx context.Context, text string, hosts []vsphere.Host) ([]vsphere.Host, error) {
	items := make([]CheckListItem, len(hosts))
	for i, h := range hosts {
		items[i] = CheckListItem{Tag: h.Name, Description: string(h.ConnectionState)}
	}
	checklist := &CheckList{Dialog: w.env.Dialog, Title: w.cluster.Name, Text: text, Items: items}
	if _, err := checklist.Display(ctx); err != nil {
		return nil, err
	}

	byName := make(map[string]vsphere.Host, len(hosts))
	for _, h := range hosts {
		byName[h.Name] = h
	}
	var picked []vsphere.Host
	for _, name := range checklist.Selected() {
		if h, ok := byName[name]; ok {
			picked = append(picked, h)
		}
	}
	return picked, nil
}

func (w *ClusterHostWidget) disconnect(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.cluster.Name, retrievingText); err != nil {
		return err
	}
	hosts, err := w.hostsIn(ctx, vsphere.ConnectionStateConnected)
	if err != nil {
		return w.env.fail(w.cluster.Name, err)
	}
	selected, err := w.pick(ctx, "Select host(s) to be disconnected from the cluster", hosts)
	if err != nil || len(selected) == 0 {
		return err
	}

	names := make([]string, len(selected))
	for i, h := range selected {
		names[i] = h.Name
	}
	text := fmt.Sprintf("The following host(s) will be disconnected from the cluster.\n\n%s\n\nDisconnect host(s) from cluster?",
		strings.Join(names, "\n"))
	code, err := w.env.Dialog.YesNo("Confirm disconnect", text)
	if err != nil || code != dialog.OK {
		return err
	}

	for _, h := range selected {
		_, err := w.env.runTask(ctx, w.cluster.Name, fmt.Sprintf("Disconnecting %s from cluster ...", h.Name),
			func(ctx context.Context) (vsphere.Task, error) {
				return w.env.API.DisconnectHost(ctx, h.Ref)
			})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *ClusterHostWidget) reconnect(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.cluster.Name, retrievingText); err != nil {
		return err
	}
	hosts, err := w.hostsIn(ctx, vsphere.ConnectionStateDisconnected)
	if err != nil {
		return w.env.fail(w.cluster.Name, err)
	}
	if len(hosts) == 0 {
		return w.env.Dialog.MsgBox(w.cluster.Name, "There are no disconnected hosts in the cluster")
	}
	selected, err := w.pick(ctx, "Select host(s) to be reconnected to the cluster", hosts)
	if err != nil || len(selected) == 0 {
		return err
	}

	for _, h := range selected {
		_, err := w.env.runTask(ctx, w.cluster.Name, fmt.Sprintf("Reconnecting %s to cluster ...", h.Name),
			func(ctx context.Context) (vsphere.Task, error) {
				return w.env.API.ReconnectHost(ctx, h.Ref)
			})
		if err != nil {
			return err
		}
	}
	return nil
}
