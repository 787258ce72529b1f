package vsphere

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

var hostProperties = []string{
	"name",
	"runtime.connectionState",
	"runtime.powerState",
	"summary.hardware",
	"summary.quickStats",
	"summary.overallStatus",
	"config.network.vnic",
}

var vmProperties = []string{
	"name",
	"runtime.powerState",
	"runtime.host",
	"config.extraConfig",
	"config.guestFullName",
	"config.hardware.numCPU",
	"config.hardware.memoryMB",
	"guest.ipAddress",
}

// Clusters lists every cluster in the inventory, sorted by name.
func (c *Client) Clusters(ctx context.Context) ([]Entity, error) {
	var clusters []mo.ClusterComputeResource
	if err := c.retrieveAll(ctx, "ClusterComputeResource", &clusters); err != nil {
		return nil, err
	}
	entities := make([]Entity, 0, len(clusters))
	for _, cl := range clusters {
		entities = append(entities, Entity{Ref: cl.Self, Name: cl.Name})
	}
	sortEntities(entities)
	return entities, nil
}

// VirtualMachines lists every virtual machine in the inventory, sorted by name.
func (c *Client) VirtualMachines(ctx context.Context) ([]Entity, error) {
	var vms []mo.VirtualMachine
	if err := c.retrieveAll(ctx, "VirtualMachine", &vms); err != nil {
		return nil, err
	}
	entities := make([]Entity, 0, len(vms))
	for _, vm := range vms {
		entities = append(entities, Entity{Ref: vm.Self, Name: vm.Name})
	}
	sortEntities(entities)
	return entities, nil
}

func (c *Client) retrieveAll(ctx context.Context, kind string, dst interface{}) error {
	m := view.NewManager(c.vim)
	v, err := m.CreateContainerView(ctx, c.vim.ServiceContent.RootFolder, []string{kind}, true)
	if err != nil {
		return fmt.Errorf("failed to create %s view: %w", kind, err)
	}
	defer func() { _ = v.Destroy(ctx) }()

	if err := v.Retrieve(ctx, []string{kind}, []string{"name"}, dst); err != nil {
		return fmt.Errorf("failed to list %s objects: %w", kind, err)
	}
	return nil
}

func sortEntities(entities []Entity) {
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
}

// ClusterSummary reads the aggregate resources of a cluster.
func (c *Client) ClusterSummary(ctx context.Context, cluster Ref) (ClusterSummary, error) {
	var cr mo.ClusterComputeResource
	if err := c.collector().RetrieveOne(ctx, cluster, []string{"name", "summary", "overallStatus"}, &cr); err != nil {
		return ClusterSummary{}, fmt.Errorf("failed to read cluster %s: %w", cluster.Value, err)
	}

	s := ClusterSummary{Name: cr.Name, OverallStatus: string(cr.OverallStatus)}
	if cr.Summary == nil {
		return s, nil
	}
	base := cr.Summary.GetComputeResourceSummary()
	s.NumHosts = base.NumHosts
	s.NumCPUCores = base.NumCpuCores
	s.NumCPUThreads = base.NumCpuThreads
	s.TotalCPUMHz = base.TotalCpu
	s.TotalMemory = base.TotalMemory
	if cs, ok := cr.Summary.(*types.ClusterComputeResourceSummary); ok {
		s.NumVmotions = cs.NumVmotions
	}
	return s, nil
}

// ClusterHosts reads every host of a cluster in the cluster's host order.
func (c *Client) ClusterHosts(ctx context.Context, cluster Ref) ([]Host, error) {
	var cr mo.ClusterComputeResource
	if err := c.collector().RetrieveOne(ctx, cluster, []string{"host"}, &cr); err != nil {
		return nil, fmt.Errorf("failed to read hosts of cluster %s: %w", cluster.Value, err)
	}
	if len(cr.Host) == 0 {
		return nil, nil
	}

	var hosts []mo.HostSystem
	if err := c.collector().Retrieve(ctx, cr.Host, hostProperties, &hosts); err != nil {
		return nil, fmt.Errorf("failed to read host properties: %w", err)
	}

	byRef := make(map[Ref]mo.HostSystem, len(hosts))
	for _, h := range hosts {
		byRef[h.Self] = h
	}
	out := make([]Host, 0, len(cr.Host))
	for _, ref := range cr.Host {
		if h, ok := byRef[ref]; ok {
			out = append(out, hostFromMo(h))
		}
	}
	return out, nil
}

// Host reads a single host.
func (c *Client) Host(ctx context.Context, host Ref) (Host, error) {
	var h mo.HostSystem
	if err := c.collector().RetrieveOne(ctx, host, hostProperties, &h); err != nil {
		return Host{}, fmt.Errorf("failed to read host %s: %w", host.Value, err)
	}
	return hostFromMo(h), nil
}

func hostFromMo(h mo.HostSystem) Host {
	out := Host{
		Ref:             h.Self,
		Name:            h.Name,
		ConnectionState: ConnectionState(h.Runtime.ConnectionState),
		PowerState:      string(h.Runtime.PowerState),
		OverallStatus:   string(h.Summary.OverallStatus),
		CPUUsageMHz:     h.Summary.QuickStats.OverallCpuUsage,
		MemoryUsageMB:   h.Summary.QuickStats.OverallMemoryUsage,
		Uptime:          time.Duration(h.Summary.QuickStats.Uptime) * time.Second,
	}
	if hw := h.Summary.Hardware; hw != nil {
		out.Vendor = hw.Vendor
		out.Model = hw.Model
		out.CPUModel = hw.CpuModel
		out.NumCPUCores = hw.NumCpuCores
		out.CPUMHz = hw.CpuMhz
		out.MemorySize = hw.MemorySize
	}
	if h.Config != nil && h.Config.Network != nil {
		for _, nic := range h.Config.Network.Vnic {
			if nic.Spec.Ip != nil && nic.Spec.Ip.IpAddress != "" {
				out.IPAddress = nic.Spec.Ip.IpAddress
				break
			}
		}
	}
	return out
}

// ClusterNetworks lists the networks attached to a cluster.
func (c *Client) ClusterNetworks(ctx context.Context, cluster Ref) ([]Network, error) {
	var cr mo.ClusterComputeResource
	if err := c.collector().RetrieveOne(ctx, cluster, []string{"network"}, &cr); err != nil {
		return nil, fmt.Errorf("failed to read networks of cluster %s: %w", cluster.Value, err)
	}

	out := make([]Network, 0, len(cr.Network))
	for _, ref := range cr.Network {
		name, err := object.NewCommon(c.vim, ref).ObjectName(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read network %s: %w", ref.Value, err)
		}
		out = append(out, Network{Ref: ref, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// TriggeredAlarms lists the alarms currently triggered on an entity.
func (c *Client) TriggeredAlarms(ctx context.Context, entity Ref) ([]Alarm, error) {
	var me mo.ManagedEntity
	if err := c.collector().RetrieveOne(ctx, entity, []string{"triggeredAlarmState"}, &me); err != nil {
		return nil, fmt.Errorf("failed to read alarms of %s: %w", entity.Value, err)
	}

	out := make([]Alarm, 0, len(me.TriggeredAlarmState))
	for _, st := range me.TriggeredAlarmState {
		var a mo.Alarm
		name := st.Alarm.Value
		if err := c.collector().RetrieveOne(ctx, st.Alarm, []string{"info.name"}, &a); err == nil && a.Info.Name != "" {
			name = a.Info.Name
		}
		out = append(out, Alarm{
			Name:         name,
			Status:       string(st.OverallStatus),
			Time:         st.Time,
			Acknowledged: st.Acknowledged != nil && *st.Acknowledged,
		})
	}
	return out, nil
}

// VirtualMachine reads a single virtual machine including its extra config.
func (c *Client) VirtualMachine(ctx context.Context, vm Ref) (VirtualMachine, error) {
	var m mo.VirtualMachine
	if err := c.collector().RetrieveOne(ctx, vm, vmProperties, &m); err != nil {
		return VirtualMachine{}, fmt.Errorf("failed to read virtual machine %s: %w", vm.Value, err)
	}

	out := VirtualMachine{
		Ref:         m.Self,
		Name:        m.Name,
		PowerState:  PowerState(m.Runtime.PowerState),
		ExtraConfig: map[string]string{},
	}
	if m.Runtime.Host != nil {
		out.Host = *m.Runtime.Host
	}
	if m.Guest != nil {
		out.IPAddress = m.Guest.IpAddress
	}
	if m.Config != nil {
		out.GuestOS = m.Config.GuestFullName
		out.NumCPU = m.Config.Hardware.NumCPU
		out.MemoryMB = m.Config.Hardware.MemoryMB
		for _, ov := range m.Config.ExtraConfig {
			o := ov.GetOptionValue()
			out.ExtraConfig[o.Key] = fmt.Sprint(o.Value)
		}
	}
	return out, nil
}

// RuntimeHost returns the host the virtual machine runs on.
func (vm VirtualMachine) RuntimeHost() (Ref, error) {
	if vm.Host.Value == "" {
		return Ref{}, ErrNoRuntimeHost
	}
	return vm.Host, nil
}
