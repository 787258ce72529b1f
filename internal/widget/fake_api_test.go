package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"pvctl/internal/dialog/dialogtest"
	"pvctl/internal/vsphere"
)

// fakeTask reports running once, then its final state.
type fakeTask struct {
	polls int
	err   error
}

func (t *fakeTask) Info(context.Context) (vsphere.TaskInfo, error) {
	t.polls++
	if t.polls == 1 {
		return vsphere.TaskInfo{State: vsphere.TaskStateRunning, Progress: 50}, nil
	}
	if t.err != nil {
		return vsphere.TaskInfo{State: vsphere.TaskStateError, Err: t.err}, nil
	}
	return vsphere.TaskInfo{State: vsphere.TaskStateSuccess, Progress: 100}, nil
}

type apiCall struct {
	Method  string
	Ref     vsphere.Ref
	Spec    vsphere.HostConnectSpec
	Options []vsphere.Option
	Name    string
}

// fakeAPI serves canned projections and records every mutation.
type fakeAPI struct {
	mu sync.Mutex

	clusters []vsphere.Entity
	vms      []vsphere.Entity
	summary  vsphere.ClusterSummary
	hosts    []vsphere.Host
	networks []vsphere.Network
	alarms   []vsphere.Alarm
	machines map[string]vsphere.VirtualMachine

	readErr   error
	submitErr error
	taskErr   error

	calls []apiCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{machines: map[string]vsphere.VirtualMachine{}}
}

func (f *fakeAPI) record(c apiCall) (vsphere.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &fakeTask{err: f.taskErr}, nil
}

func (f *fakeAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) Clusters(context.Context) ([]vsphere.Entity, error) {
	return f.clusters, f.readErr
}

func (f *fakeAPI) VirtualMachines(context.Context) ([]vsphere.Entity, error) {
	return f.vms, f.readErr
}

func (f *fakeAPI) ClusterSummary(context.Context, vsphere.Ref) (vsphere.ClusterSummary, error) {
	return f.summary, f.readErr
}

func (f *fakeAPI) ClusterHosts(context.Context, vsphere.Ref) ([]vsphere.Host, error) {
	return f.hosts, f.readErr
}

func (f *fakeAPI) ClusterNetworks(context.Context, vsphere.Ref) ([]vsphere.Network, error) {
	return f.networks, f.readErr
}

func (f *fakeAPI) TriggeredAlarms(context.Context, vsphere.Ref) ([]vsphere.Alarm, error) {
	return f.alarms, f.readErr
}

func (f *fakeAPI) Host(_ context.Context, ref vsphere.Ref) (vsphere.Host, error) {
	if f.readErr != nil {
		return vsphere.Host{}, f.readErr
	}
	for _, h := range f.hosts {
		if h.Ref == ref {
			return h, nil
		}
	}
	return vsphere.Host{}, errors.New("host not found")
}

func (f *fakeAPI) VirtualMachine(_ context.Context, ref vsphere.Ref) (vsphere.VirtualMachine, error) {
	if f.readErr != nil {
		return vsphere.VirtualMachine{}, f.readErr
	}
	vm, ok := f.machines[ref.Value]
	if !ok {
		return vsphere.VirtualMachine{}, errors.New("vm not found")
	}
	return vm, nil
}

func (f *fakeAPI) AddHost(_ context.Context, cluster vsphere.Ref, spec vsphere.HostConnectSpec) (vsphere.Task, error) {
	return f.record(apiCall{Method: "AddHost", Ref: cluster, Spec: spec})
}

func (f *fakeAPI) DisconnectHost(_ context.Context, host vsphere.Ref) (vsphere.Task, error) {
	return f.record(apiCall{Method: "DisconnectHost", Ref: host})
}

func (f *fakeAPI) ReconnectHost(_ context.Context, host vsphere.Ref) (vsphere.Task, error) {
	return f.record(apiCall{Method: "ReconnectHost", Ref: host})
}

func (f *fakeAPI) Reconfigure(_ context.Context, vm vsphere.Ref, options []vsphere.Option) (vsphere.Task, error) {
	return f.record(apiCall{Method: "Reconfigure", Ref: vm, Options: options})
}

func (f *fakeAPI) Rename(_ context.Context, entity vsphere.Ref, name string) (vsphere.Task, error) {
	return f.record(apiCall{Method: "Rename", Ref: entity, Name: name})
}

func ref(kind, value string) vsphere.Ref {
	return vsphere.Ref{Type: kind, Value: value}
}

func host(name string, state vsphere.ConnectionState) vsphere.Host {
	return vsphere.Host{Ref: ref("HostSystem", name), Name: name, ConnectionState: state, IPAddress: "10.0.0.1"}
}

func newTestEnv(api *fakeAPI, script ...dialogtest.Response) (*Env, *dialogtest.Fake) {
	fake := dialogtest.New(script...)
	return &Env{API: api, Dialog: fake, PollInterval: time.Millisecond}, fake
}

var testCluster = vsphere.Entity{Ref: ref("ClusterComputeResource", "domain-c1"), Name: "cluster-1"}
