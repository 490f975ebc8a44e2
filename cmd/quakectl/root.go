package main

import (
	"github.com/spf13/cobra"
)

const longDescription = "Predict earthquake magnitudes from location, depth, magnitude type and station count using a pre-trained regression model."

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quakectl",
		Short: "Earthquake magnitude prediction from the command line",
		Long:  longDescription,

		SilenceUsage: true,

		// Without a subcommand, show help instead of a bare usage line.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newPredictCmd(), newScaleCmd(), newInspectCmd())
	return root
}
