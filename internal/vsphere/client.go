package vsphere

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/soap"

	"pvctl/pkg/logging"
)

// Client implements API on top of a govmomi session.
type Client struct {
	vim    *vim25.Client
	logout func(ctx context.Context) error
}

var _ API = (*Client)(nil)

// Connect opens an authenticated session against a vCenter or ESX endpoint.
// rawURL may omit the scheme and /sdk path; username and password, when set,
// replace any credentials embedded in the URL.
func Connect(ctx context.Context, rawURL, username, password string, insecure bool) (*Client, error) {
	u, err := soap.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid vCenter URL %q: %w", rawURL, err)
	}
	if u == nil {
		return nil, errors.New("no vCenter URL configured")
	}
	if username != "" {
		u.User = url.UserPassword(username, password)
	}

	logging.Info("VSphere", "connecting to %s", u.Host)
	gc, err := govmomi.NewClient(ctx, u, insecure)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u.Host, err)
	}
	logging.Info("VSphere", "connected to %s (%s)", u.Host, gc.ServiceContent.About.FullName)

	return &Client{vim: gc.Client, logout: gc.Logout}, nil
}

// NewClient wraps an existing vim25 client, e.g. one handed out by the simulator.
func NewClient(c *vim25.Client) *Client {
	return &Client{vim: c}
}

// Logout ends the session if this Client opened it.
func (c *Client) Logout(ctx context.Context) error {
	if c.logout == nil {
		return nil
	}
	return c.logout(ctx)
}

func (c *Client) collector() *property.Collector {
	return property.DefaultCollector(c.vim)
}
