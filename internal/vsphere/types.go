package vsphere

import (
	"errors"
	"time"

	"github.com/vmware/govmomi/vim25/types"
)

// Ref identifies a managed object on the server.
type Ref = types.ManagedObjectReference

var (
	// ErrNoHostAddress is returned when a host exposes no management IP address.
	ErrNoHostAddress = errors.New("host has no management IP address")
	// ErrNoRuntimeHost is returned for a virtual machine that is not placed on a host.
	ErrNoRuntimeHost = errors.New("virtual machine has no runtime host")
)

// ConnectionState mirrors HostSystemConnectionState.
type ConnectionState string

const (
	ConnectionStateConnected     ConnectionState = "connected"
	ConnectionStateDisconnected  ConnectionState = "disconnected"
	ConnectionStateNotResponding ConnectionState = "notResponding"
)

// PowerState mirrors VirtualMachinePowerState.
type PowerState string

const (
	PowerStatePoweredOn  PowerState = "poweredOn"
	PowerStatePoweredOff PowerState = "poweredOff"
	PowerStateSuspended  PowerState = "suspended"
)

// Entity is a named managed object, as listed in menus.
type Entity struct {
	Ref  Ref
	Name string
}

// ClusterSummary is the aggregate resource view of a cluster.
type ClusterSummary struct {
	Name          string
	NumHosts      int32
	NumVmotions   int32
	NumCPUCores   int16
	NumCPUThreads int16
	TotalCPUMHz   int32
	TotalMemory   int64
	OverallStatus string
}

// Host is the projection of a HostSystem used by the console.
type Host struct {
	Ref             Ref
	Name            string
	ConnectionState ConnectionState
	PowerState      string
	// IPAddress is the address of the first VMkernel NIC, empty when unknown.
	IPAddress     string
	Vendor        string
	Model         string
	CPUModel      string
	NumCPUCores   int16
	CPUMHz        int32
	MemorySize    int64
	CPUUsageMHz   int32
	MemoryUsageMB int32
	Uptime        time.Duration
	OverallStatus string
}

// VirtualMachine is the projection of a VirtualMachine used by the console.
type VirtualMachine struct {
	Ref        Ref
	Name       string
	PowerState PowerState
	Host       Ref
	GuestOS    string
	NumCPU     int32
	MemoryMB   int32
	IPAddress  string
	// ExtraConfig holds config.extraConfig as strings.
	ExtraConfig map[string]string
}

// Network is a network attached to a compute resource.
type Network struct {
	Ref  Ref
	Name string
}

// Kind returns the managed object type, e.g. "Network" or "DistributedVirtualPortgroup".
func (n Network) Kind() string {
	return n.Ref.Type
}

// Alarm is a triggered alarm on an entity.
type Alarm struct {
	Name         string
	Status       string
	Time         time.Time
	Acknowledged bool
}

// HostConnectSpec carries the credentials for adding a host to a cluster.
type HostConnectSpec struct {
	HostName      string
	SSLThumbprint string
	UserName      string
	Password      string
}

// Option is one extra-config key/value pair of a reconfiguration delta.
type Option struct {
	Key   string
	Value string
}
