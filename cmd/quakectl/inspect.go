package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mr1hm/go-quake-magnitude/internal/artifact"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

func newInspectCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show metadata of a model artifact",
		Long:  "Loads and validates a model artifact, prints its metadata as YAML and checks it against the input features.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := artifact.Load(path)
			if err != nil {
				return err
			}
			info := m.Info()

			out, err := yaml.Marshal(info)
			if err != nil {
				return fmt.Errorf("error encoding model info: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, string(out))
			if err := info.Compatible(models.FeatureNames[:]); err != nil {
				fmt.Fprintf(w, "compatible: false # %v\n", err)
			} else {
				fmt.Fprintln(w, "compatible: true")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "model", "./model.json", "model artifact (.json, .yaml)")
	return cmd
}
