package vsphere

import (
	"context"
	"fmt"
)

// API is the slice of the vSphere management API the console drives.
// Reads return fresh projections on every call; mutating calls return a Task.
type API interface {
	// Inventory
	Clusters(ctx context.Context) ([]Entity, error)
	VirtualMachines(ctx context.Context) ([]Entity, error)

	// Reads
	ClusterSummary(ctx context.Context, cluster Ref) (ClusterSummary, error)
	ClusterHosts(ctx context.Context, cluster Ref) ([]Host, error)
	ClusterNetworks(ctx context.Context, cluster Ref) ([]Network, error)
	TriggeredAlarms(ctx context.Context, entity Ref) ([]Alarm, error)
	Host(ctx context.Context, host Ref) (Host, error)
	VirtualMachine(ctx context.Context, vm Ref) (VirtualMachine, error)

	// Mutations
	AddHost(ctx context.Context, cluster Ref, spec HostConnectSpec) (Task, error)
	DisconnectHost(ctx context.Context, host Ref) (Task, error)
	ReconnectHost(ctx context.Context, host Ref) (Task, error)
	Reconfigure(ctx context.Context, vm Ref, options []Option) (Task, error)
	Rename(ctx context.Context, entity Ref, name string) (Task, error)
}

// TaskState is the lifecycle state of a remote task.
type TaskState string

const (
	TaskStateQueued  TaskState = "queued"
	TaskStateRunning TaskState = "running"
	TaskStateSuccess TaskState = "success"
	TaskStateError   TaskState = "error"
)

// Terminal reports whether no further transitions can happen.
func (s TaskState) Terminal() bool {
	return s == TaskStateSuccess || s == TaskStateError
}

// TaskInfo is a snapshot of a remote task.
type TaskInfo struct {
	State    TaskState
	Progress int
	// Err is set when State is TaskStateError.
	Err error
}

// Task is a pollable handle on a remote asynchronous operation.
type Task interface {
	Info(ctx context.Context) (TaskInfo, error)
}

// TaskError is the failure reported by the server for a task.
type TaskError struct {
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task failed: %s", e.Message)
}
