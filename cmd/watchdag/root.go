package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "watchdag",
		Short:         "Watchdag waits on runs of external workflows before releasing work",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newPollCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newDashboardCmd(flags))
	cmd.AddCommand(newWorkflowsCmd(flags))
	cmd.AddCommand(newSeedCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
