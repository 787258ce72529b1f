package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pvctl/internal/dialog"
	"pvctl/internal/widget"
)

func newConsoleCmd() *cobra.Command {
	flags := &sessionFlags{}
	var endpoint string
	cmd := &cobra.Command{
		Use:   "console <vm-name>",
		Short: "Manage the VNC console of a single virtual machine",
		Long: `Connects to the configured endpoint and opens the VNC console menu of the
named virtual machine, skipping the inventory menus.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, flags, endpoint, args[0])
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&endpoint, "url", "", "vCenter URL (overrides GOVC_URL)")
	return cmd
}

func runConsole(cmd *cobra.Command, flags *sessionFlags, endpoint, vmName string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd, flags, []string{endpoint})
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

	vm, found, err := widget.FindVirtualMachine(ctx, s.client, vmName)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("virtual machine %q not found", vmName)
	}
	w, err := widget.NewVncWidget(s.env, s.vnc, vm)
	if err != nil {
		return err
	}
	return w.Display(ctx)
}
