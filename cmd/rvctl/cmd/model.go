package cmd

import (
	"context"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func vocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "Show the input vocabulary the model accepts",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			v, err := c.GetVocabulary(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(v)
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("Schema:\t%s\n", v.Schema)
			tw.writef("Storage:\t%s\n", storageList(v.StorageOptions))
			tw.writef("Damage:\t%s\n", strings.Join(v.DamageLevels, ", "))
			for _, field := range slices.Sorted(maps.Keys(v.Labels)) {
				tw.writef("%s:\t%s\n", field, strings.Join(v.Labels[field], ", "))
			}
			if len(v.ValidStorage) > 0 {
				tw.writef("\nBRAND\tVALID STORAGE\n")
				for _, brand := range slices.Sorted(maps.Keys(v.ValidStorage)) {
					tw.writef("%s\t%s\n", brand, storageList(v.ValidStorage[brand]))
				}
			}
			return tw.finish()
		},
	}
}

func modelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Show the active model and pricing constants",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			m, err := c.GetModel(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(m)
			}
			return printModel(m)
		},
	}
}
