package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

func newScaleCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Print the magnitude scale reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(models.ReferenceScale)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MAGNITUDE\tCLASS\tEFFECTS")
			for _, e := range models.ReferenceScale {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Range, e.Tier, e.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}
