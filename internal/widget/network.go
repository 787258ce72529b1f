package widget

import (
	"context"

	"pvctl/internal/vsphere"
)

// NetworkWidget lists the networks attached to a cluster.
type NetworkWidget struct {
	env     *Env
	cluster vsphere.Entity
}

// NewNetworkWidget creates a NetworkWidget.
func NewNetworkWidget(env *Env, cluster vsphere.Entity) *NetworkWidget {
	return &NetworkWidget{env: env, cluster: cluster}
}

// Display implements Controller.
func (w *NetworkWidget) Display(ctx context.Context) error {
	menu := &Menu{
		Dialog: w.env.Dialog,
		Title:  w.cluster.Name,
		Text:   "Select a network from the list",
		Load: func(ctx context.Context) ([]MenuItem, error) {
			networks, err := w.env.API.ClusterNetworks(ctx, w.cluster.Ref)
			if err != nil {
				return nil, err
			}
			items := make([]MenuItem, len(networks))
			for i, n := range networks {
				items[i] = MenuItem{Tag: n.Name, Description: n.Kind(), Action: Invoke{Fn: func(ctx context.Context) error {
					return w.env.showReadOnly(ctx, n.Name, "", []FormElement{
						{Label: "Name", Value: n.Name},
						{Label: "Type", Value: n.Kind()},
						{Label: "Reference", Value: n.Ref.Value},
					})
				}}}
			}
			return items, nil
		},
	}
	return menu.Display(ctx)
}
