package widget

import (
	"context"

	"pvctl/internal/vsphere"
)

// Inventory is the root screen listing what the console can manage.
type Inventory struct {
	env     *Env
	vncDeps VncDeps
	// Title is shown on the root menu, usually the vCenter host.
	Title string
}

// NewInventory creates the root screen.
func NewInventory(env *Env, vncDeps VncDeps, title string) *Inventory {
	return &Inventory{env: env, vncDeps: vncDeps, Title: title}
}

// Display implements Controller.
func (w *Inventory) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.Title,
		Text:   "Select an item from the inventory",
		Items: []MenuItem{
			{Tag: "Clusters", Description: "Manage clusters", Action: Navigate{Target: w.clusterMenu()}},
			{Tag: "Virtual Machines", Description: "Manage virtual machines", Action: Navigate{Target: w.vmMenu()}},
			{Tag: "Logs", Description: "View recent log messages", Action: Navigate{Target: &LogWidget{Dialog: w.env.Dialog}}},
		},
	}
	return menu.Display(ctx)
}

func (w *Inventory) clusterMenu() *Menu {
	return &Menu{
		Dialog: w.env.Dialog,
		Title:  "Clusters",
		Text:   "Select a cluster from the list",
		Load: func(ctx context.Context) ([]MenuItem, error) {
			clusters, err := w.env.API.Clusters(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]MenuItem, len(clusters))
			for i, c := range clusters {
				items[i] = MenuItem{Tag: c.Name, Description: "Cluster", Action: Navigate{Target: NewClusterWidget(w.env, c)}}
			}
			return items, nil
		},
	}
}

func (w *Inventory) vmMenu() *Menu {
	return &Menu{
		Dialog: w.env.Dialog,
		Title:  "Virtual Machines",
		Text:   "Select a virtual machine from the list",
		Load: func(ctx context.Context) ([]MenuItem, error) {
			vms, err := w.env.API.VirtualMachines(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]MenuItem, len(vms))
			for i, vm := range vms {
				items[i] = MenuItem{Tag: vm.Name, Description: "Virtual Machine", Action: Navigate{Target: NewVirtualMachineWidget(w.env, w.vncDeps, vm)}}
			}
			return items, nil
		},
	}
}

// FindVirtualMachine looks up a virtual machine by name.
func FindVirtualMachine(ctx context.Context, api vsphere.API, name string) (vsphere.Entity, bool, error) {
	vms, err := api.VirtualMachines(ctx)
	if err != nil {
		return vsphere.Entity{}, false, err
	}
	for _, vm := range vms {
		if vm.Name == name {
			return vm, true, nil
		}
	}
	return vsphere.Entity{}, false, nil
}
