package vsphere

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"pvctl/pkg/logging"
)

// AddHost adds a host to a cluster in connected state.
func (c *Client) AddHost(ctx context.Context, cluster Ref, spec HostConnectSpec) (Task, error) {
	cnx := types.HostConnectSpec{
		HostName:      spec.HostName,
		SslThumbprint: spec.SSLThumbprint,
		UserName:      spec.UserName,
		Password:      spec.Password,
	}
	t, err := object.NewClusterComputeResource(c.vim, cluster).AddHost(ctx, cnx, true, nil, nil)
	return c.submitted("AddHost", spec.HostName, t, err)
}

// DisconnectHost disconnects a host from vCenter.
func (c *Client) DisconnectHost(ctx context.Context, host Ref) (Task, error) {
	t, err := object.NewHostSystem(c.vim, host).Disconnect(ctx)
	return c.submitted("DisconnectHost", host.Value, t, err)
}

// ReconnectHost reconnects a disconnected host using the stored credentials.
func (c *Client) ReconnectHost(ctx context.Context, host Ref) (Task, error) {
	t, err := object.NewHostSystem(c.vim, host).Reconnect(ctx, nil, nil)
	return c.submitted("ReconnectHost", host.Value, t, err)
}

// Reconfigure submits options as an extra-config delta; the server merges it
// with the existing configuration.
func (c *Client) Reconfigure(ctx context.Context, vm Ref, options []Option) (Task, error) {
	extra := make([]types.BaseOptionValue, 0, len(options))
	for _, o := range options {
		extra = append(extra, &types.OptionValue{Key: o.Key, Value: o.Value})
	}
	spec := types.VirtualMachineConfigSpec{ExtraConfig: extra}
	t, err := object.NewVirtualMachine(c.vim, vm).Reconfigure(ctx, spec)
	return c.submitted("Reconfigure", vm.Value, t, err)
}

// Rename renames any managed entity.
func (c *Client) Rename(ctx context.Context, entity Ref, name string) (Task, error) {
	t, err := object.NewCommon(c.vim, entity).Rename(ctx, name)
	return c.submitted("Rename", entity.Value, t, err)
}

func (c *Client) submitted(op, target string, t *object.Task, err error) (Task, error) {
	if err != nil {
		logging.Error("VSphere", err, "%s %s rejected", op, target)
		return nil, fmt.Errorf("%s %s: %w", op, target, err)
	}
	logging.Info("VSphere", "%s %s submitted as %s", op, target, t.Reference().Value)
	return &remoteTask{vim: c.vim, ref: t.Reference()}, nil
}

// remoteTask polls a server-side Task object.
type remoteTask struct {
	vim *vim25.Client
	ref Ref
}

// Info reads the task's current state.
func (t *remoteTask) Info(ctx context.Context) (TaskInfo, error) {
	var task mo.Task
	if err := property.DefaultCollector(t.vim).RetrieveOne(ctx, t.ref, []string{"info"}, &task); err != nil {
		return TaskInfo{}, fmt.Errorf("failed to read task %s: %w", t.ref.Value, err)
	}
	return taskInfoFrom(task.Info), nil
}

func taskInfoFrom(info types.TaskInfo) TaskInfo {
	out := TaskInfo{Progress: int(info.Progress)}
	switch info.State {
	case types.TaskInfoStateQueued:
		out.State = TaskStateQueued
	case types.TaskInfoStateRunning:
		out.State = TaskStateRunning
	case types.TaskInfoStateSuccess:
		out.State = TaskStateSuccess
		out.Progress = 100
	case types.TaskInfoStateError:
		out.State = TaskStateError
		out.Err = &TaskError{Message: faultMessage(info.Error)}
	default:
		out.State = TaskStateQueued
	}
	return out
}

func faultMessage(f *types.LocalizedMethodFault) string {
	if f == nil {
		return "unknown error"
	}
	if f.LocalizedMessage != "" {
		return f.LocalizedMessage
	}
	if f.Fault != nil {
		return fmt.Sprintf("%T", f.Fault)
	}
	return "unknown error"
}
