package widget

import (
	"context"
	"strconv"

	"github.com/dustin/go-humanize"

	"pvctl/internal/vsphere"
)

// VirtualMachineWidget is the top-level screen of a virtual machine.
type VirtualMachineWidget struct {
	env     *Env
	vncDeps VncDeps
	vm      vsphere.Entity
}

// NewVirtualMachineWidget creates a VirtualMachineWidget.
func NewVirtualMachineWidget(env *Env, vncDeps VncDeps, vm vsphere.Entity) *VirtualMachineWidget {
	return &VirtualMachineWidget{env: env, vncDeps: vncDeps, vm: vm}
}

// Display implements Controller.
func (w *VirtualMachineWidget) Display(ctx context.Context) error {
	console, err := NewVncWidget(w.env, w.vncDeps, w.vm)
	if err != nil {
		return err
	}
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.vm.Name,
		Items: []MenuItem{
			{Tag: "Summary", Description: "General information", Action: Invoke{Fn: w.summary}},
			{Tag: "Console", Description: "Virtual Machine Console", Action: Navigate{Target: console}},
			{Tag: "Alarms", Description: "View triggered alarms", Action: Navigate{Target: NewAlarmWidget(w.env, w.vm)}},
		},
	}
	return menu.Display(ctx)
}

func (w *VirtualMachineWidget) summary(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.vm.Name, retrievingText); err != nil {
		return err
	}
	vm, err := w.env.API.VirtualMachine(ctx, w.vm.Ref)
	if err != nil {
		return w.env.fail(w.vm.Name, err)
	}

	hostName := ""
	if ref, err := vm.RuntimeHost(); err == nil {
		if h, err := w.env.API.Host(ctx, ref); err == nil {
			hostName = h.Name
		}
	}
	vncState := "disabled"
	if isEnabled(vm.ExtraConfig) {
		vncState = "enabled on port " + vm.ExtraConfig[vncPortKey]
	}

	return w.env.showReadOnly(ctx, w.vm.Name, "", []FormElement{
		{Label: "Power State", Value: string(vm.PowerState)},
		{Label: "Guest OS", Value: vm.GuestOS},
		{Label: "CPU", Value: strconv.Itoa(int(vm.NumCPU))},
		{Label: "Memory", Value: humanize.IBytes(uint64(max(vm.MemoryMB, 0)) * humanize.MiByte)},
		{Label: "IP Address", Value: vm.IPAddress},
		{Label: "Host", Value: hostName},
		{Label: "VNC Console", Value: vncState},
	})
}
