package widget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pvctl/internal/dialog"
	"pvctl/internal/vnc"
	"pvctl/internal/vsphere"
)

// ErrNotVirtualMachine is returned when a VncWidget is bound to anything but
// a virtual machine.
var ErrNotVirtualMachine = errors.New("need a VirtualMachine managed object")

const (
	vncEnabledKey  = "RemoteDisplay.vnc.enabled"
	vncPortKey     = "RemoteDisplay.vnc.port"
	vncPasswordKey = "RemoteDisplay.vnc.password"
)

// ConsoleLauncher opens a console viewer for host:port.
type ConsoleLauncher interface {
	Launch(ctx context.Context, host string, port int, password string) error
}

// VncDeps are the environment pieces the VNC widget needs besides the API.
type VncDeps struct {
	Prober         vnc.Prober
	Rand           vnc.RandomSource
	Launcher       ConsoleLauncher
	Ports          vnc.PortRange
	PortAttempts   int
	PasswordLength int
}

// VncWidget manages the VNC console of a virtual machine.
type VncWidget struct {
	env  *Env
	deps VncDeps
	vm   vsphere.Entity
}

// NewVncWidget creates a VncWidget for vm.
func NewVncWidget(env *Env, deps VncDeps, vm vsphere.Entity) (*VncWidget, error) {
	if vm.Ref.Type != "VirtualMachine" {
		return nil, fmt.Errorf("%w: got %s", ErrNotVirtualMachine, vm.Ref.Type)
	}
	return &VncWidget{env: env, deps: deps, vm: vm}, nil
}

// Display implements Controller.
func (w *VncWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.vm.Name,
		Items: []MenuItem{
			{Tag: "Console", Description: "Launch VNC Console", Action: Invoke{Fn: w.launchConsole}},
			{Tag: "Enable", Description: "Enable VNC Console", Action: Invoke{Fn: w.enable}},
			{Tag: "Disable", Description: "Disable VNC Console", Action: Invoke{Fn: w.disable}},
			{Tag: "Settings", Description: "Manual VNC Configuration", Action: Invoke{Fn: w.settings}},
		},
	}
	return menu.Display(ctx)
}

// hostAddress returns the management IP of the host running vm.
func (w *VncWidget) hostAddress(ctx context.Context, vm vsphere.VirtualMachine) (vsphere.Host, error) {
	ref, err := vm.RuntimeHost()
	if err != nil {
		return vsphere.Host{}, err
	}
	host, err := w.env.API.Host(ctx, ref)
	if err != nil {
		return vsphere.Host{}, err
	}
	if host.IPAddress == "" {
		return vsphere.Host{}, fmt.Errorf("%s: %w", host.Name, vsphere.ErrNoHostAddress)
	}
	return host, nil
}

func (w *VncWidget) configure(ctx context.Context, text string, options []vsphere.Option) error {
	_, err := w.env.runTask(ctx, w.vm.Name, text, func(ctx context.Context) (vsphere.Task, error) {
		return w.env.API.Reconfigure(ctx, w.vm.Ref, options)
	})
	return err
}

func vncOptions(enabled, port, password string) []vsphere.Option {
	return []vsphere.Option{
		{Key: vncEnabledKey, Value: enabled},
		{Key: vncPortKey, Value: port},
		{Key: vncPasswordKey, Value: password},
	}
}

func isEnabled(extra map[string]string) bool {
	return strings.EqualFold(extra[vncEnabledKey], "true")
}

func (w *VncWidget) enable(ctx context.Context) error {
	if err := w.env.Dialog.InfoBox(w.vm.Name, "Enabling VNC Console ..."); err != nil {
		return err
	}
	vm, err := w.env.API.VirtualMachine(ctx, w.vm.Ref)
	if err != nil {
		return w.env.fail(w.vm.Name, err)
	}
	if isEnabled(vm.ExtraConfig) {
		return w.env.Dialog.MsgBox(w.vm.Name, "VNC console is already enabled")
	}

	port := vm.ExtraConfig[vncPortKey]
	if port == "" {
		host, err := w.hostAddress(ctx, vm)
		if err != nil {
			return w.env.fail(w.vm.Name, err)
		}
		if err := w.env.Dialog.InfoBox(w.vm.Name, "Searching for available port ..."); err != nil {
			return err
		}
		p, err := vnc.FindAvailablePort(ctx, w.deps.Prober, w.deps.Rand, host.IPAddress, w.deps.Ports, w.deps.PortAttempts)
		if errors.Is(err, vnc.ErrNoPortAvailable) {
			return w.env.Dialog.MsgBox(w.vm.Name, "No available ports for VNC connection, try again later.")
		}
		if err != nil {
			return w.env.fail(w.vm.Name, err)
		}
		port = strconv.Itoa(p)
	}

	password := vm.ExtraConfig[vncPasswordKey]
	if password == "" {
		password = vnc.RandomPassword(w.deps.Rand, w.deps.PasswordLength)
	}
	return w.configure(ctx, "Configuring VNC Settings", vncOptions("true", port, password))
}

func (w *VncWidget) disable(ctx context.Context) error {
	return w.configure(ctx, "Disabling VNC Console", []vsphere.Option{{Key: vncEnabledKey, Value: "false"}})
}

func (w *VncWidget) settings(ctx context.Context) error {
	vm, err := w.env.API.VirtualMachine(ctx, w.vm.Ref)
	if err != nil {
		return w.env.fail(w.vm.Name, err)
	}
	enabled := vm.ExtraConfig[vncEnabledKey]
	if enabled == "" {
		enabled = "false"
	}

	form := &Form{
		Dialog: w.env.Dialog,
		Title:  w.vm.Name,
		Text:   "VNC Configuration Options",
		Elements: []FormElement{
			{Label: "Enabled", Value: enabled},
			{Label: "Port", Value: vm.ExtraConfig[vncPortKey]},
			{Label: "Password", Value: vm.ExtraConfig[vncPasswordKey], MaxLength: w.deps.PasswordLength},
		},
	}
	code, fields, err := form.Display(ctx)
	if err != nil || code != dialog.OK {
		return err
	}
	if !allSet(fields) {
		return w.env.Dialog.MsgBox(w.vm.Name, "Invalid configuration settings")
	}
	if _, err := strconv.Atoi(fields["Port"]); err != nil {
		return w.env.Dialog.MsgBox(w.vm.Name, "Invalid configuration settings")
	}
	return w.configure(ctx, "Configuring VNC Settings", vncOptions(fields["Enabled"], fields["Port"], fields["Password"]))
}

func (w *VncWidget) launchConsole(ctx context.Context) error {
	vm, err := w.env.API.VirtualMachine(ctx, w.vm.Ref)
	if err != nil {
		return w.env.fail(w.vm.Name, err)
	}
	if vm.PowerState != vsphere.PowerStatePoweredOn {
		return w.env.Dialog.MsgBox(w.vm.Name, "You need to power on the Virtual Machine first")
	}
	if !isEnabled(vm.ExtraConfig) {
		return w.env.Dialog.MsgBox(w.vm.Name, "VNC console is disabled, enable the console first")
	}
	port, err := strconv.Atoi(vm.ExtraConfig[vncPortKey])
	if err != nil {
		return w.env.Dialog.MsgBox(w.vm.Name, fmt.Sprintf("Invalid VNC port configured: %q", vm.ExtraConfig[vncPortKey]))
	}

	host, err := w.hostAddress(ctx, vm)
	if err != nil {
		return w.env.fail(w.vm.Name, err)
	}
	if !w.deps.Prober.IsOpen(ctx, host.IPAddress, port) {
		text := fmt.Sprintf("Host %s with IP address %s is not reachable on port %d\n"+
			"Cannot establish a connection to the Virtual Machine console", host.Name, host.IPAddress, port)
		return w.env.Dialog.MsgBox(w.vm.Name, text)
	}

	if err := w.env.Dialog.InfoBox(w.vm.Name, "Launching console ..."); err != nil {
		return err
	}
	if err := w.deps.Launcher.Launch(ctx, host.IPAddress, port, vm.ExtraConfig[vncPasswordKey]); err != nil {
		return w.env.fail(w.vm.Name, err)
	}
	return nil
}
