package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose    bool
	hostConfig string
}

func newRootCmd(app *AppContext, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flowctl",
		Short:         "flowctl runs and inspects flowcore graph-based workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.hostConfig, "hostconfig", "", "path to the host-runtime config YAML")

	cmd.AddCommand(newRunCmd(app, flags))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newDashboardCmd(app, flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
