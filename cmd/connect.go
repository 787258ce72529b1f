package cmd

import (
	"context"
	"errors"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pvctl/internal/dialog"
	"pvctl/internal/widget"
)

const logoutTimeout = 10 * time.Second

func newConnectCmd() *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "connect [url]",
		Short: "Open the inventory console of a vCenter or ESXi endpoint",
		Long: `Connects to a vCenter or ESXi endpoint and opens the inventory menu.

The endpoint is taken from the argument, the configuration file or GOVC_URL,
in that order of precedence. Credentials come from --username, GOVC_USERNAME
and GOVC_PASSWORD; anything missing is asked for in a login form.

Log messages are written to ~/.cache/pvctl/pvctl.log and can be viewed from
the Logs entry of the inventory menu.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(cmd, flags, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func runConnect(cmd *cobra.Command, flags *sessionFlags, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd, flags, args)
	if errors.Is(err, dialog.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
		defer cancel()
		s.Close(logoutCtx)
	}()

	return widget.NewInventory(s.env, s.vnc, endpointTitle(s.cfg.VCenter.URL)).Display(ctx)
}

// endpointTitle returns the host part of a vCenter URL for menu titles.
func endpointTitle(raw string) string {
	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		return u.Hostname()
	}
	return raw
}
