package widget

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"pvctl/internal/vsphere"
)

// HostWidget shows a single host.
type HostWidget struct {
	env  *Env
	host vsphere.Entity
}

// NewHostWidget creates a HostWidget.
func NewHostWidget(env *Env, host vsphere.Entity) *HostWidget {
	return &HostWidget{env: env, host: host}
}

// Display implements Controller.
func (w *HostWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.host.Name,
		Items: []MenuItem{
			{Tag: "Summary", Description: "General information", Action: Invoke{Fn: w.summary}},
			{Tag: "Alarms", Description: "View triggered alarms", Action: Navigate{Target: NewAlarmWidget(w.env, w.host)}},
		},
	}
	return menu.Display(ctx)
}

func (w *HostWidget) summary(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.host.Name, retrievingText); err != nil {
		return err
	}
	h, err := w.env.API.Host(ctx, w.host.Ref)
	if err != nil {
		return w.env.fail(w.host.Name, err)
	}
	return w.env.showReadOnly(ctx, w.host.Name, "", hostSummaryElements(h))
}

func hostSummaryElements(h vsphere.Host) []FormElement {
	return []FormElement{
		{Label: "State", Value: string(h.ConnectionState)},
		{Label: "Power State", Value: h.PowerState},
		{Label: "IP Address", Value: h.IPAddress},
		{Label: "Vendor", Value: h.Vendor},
		{Label: "Model", Value: h.Model},
		{Label: "CPU", Value: h.CPUModel},
		{Label: "CPU Cores", Value: strconv.Itoa(int(h.NumCPUCores))},
		{Label: "CPU Speed", Value: fmt.Sprintf("%d MHz", h.CPUMHz)},
		{Label: "Memory", Value: humanize.IBytes(uint64(max(h.MemorySize, 0)))},
		{Label: "Uptime", Value: h.Uptime.Truncate(time.Second).String()},
		{Label: "Overall Status", Value: h.OverallStatus},
	}
}

// PerformanceWidget shows the quick stats of every host in a cluster.
type PerformanceWidget struct {
	env     *Env
	cluster vsphere.Entity
}

// NewPerformanceWidget creates a PerformanceWidget.
func NewPerformanceWidget(env *Env, cluster vsphere.Entity) *PerformanceWidget {
	return &PerformanceWidget{env: env, cluster: cluster}
}

// Display implements Controller.
func (w *PerformanceWidget) Display(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.cluster.Name, retrievingText); err != nil {
		return err
	}
	hosts, err := w.env.API.ClusterHosts(ctx, w.cluster.Ref)
	if err != nil {
		return w.env.fail(w.cluster.Name, err)
	}
	if len(hosts) == 0 {
		return w.env.Dialog.MsgBox(w.cluster.Name, "There are no hosts in the cluster")
	}

	elements := make([]FormElement, len(hosts))
	for i, h := range hosts {
		elements[i] = FormElement{
			Label: h.Name,
			Value: fmt.Sprintf("CPU %d/%d MHz, Memory %s/%s",
				h.CPUUsageMHz, int(h.CPUMHz)*int(h.NumCPUCores),
				humanize.IBytes(uint64(max(h.MemoryUsageMB, 0))*humanize.MiByte),
				humanize.IBytes(uint64(max(h.MemorySize, 0)))),
		}
	}
	return w.env.showReadOnly(ctx, w.cluster.Name, "Host quick stats", elements)
}
