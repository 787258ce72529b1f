package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pvctl",
	Short: "Dialog-driven console for managing vSphere clusters and virtual machines",
	Long: `pvctl is a terminal console for vSphere. It walks clusters, hosts and
virtual machines through menus and forms, connects and disconnects hosts,
and provisions and opens VNC consoles for virtual machines.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed connections)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "pvctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
