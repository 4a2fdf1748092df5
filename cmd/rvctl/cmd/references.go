package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func referencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "references",
		Aliases: []string{"refs"},
		Short:   "Manage reference prices",
	}

	cmd.AddCommand(referencesListCmd())
	cmd.AddCommand(referencesGetCmd())
	cmd.AddCommand(referencesSetCmd())
	cmd.AddCommand(referencesRefreshCmd())

	return cmd
}

func referencesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reference prices",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			entries, err := c.ListReferences(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Println("No reference prices.")
				return nil
			}
			return printReferencesTable(entries)
		},
	}
}

func referencesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <brand>",
		Short: "Show the reference price for a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			e, err := c.GetReference(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(e)
			}
			return printReferenceDetail(e)
		},
	}
}

func referencesSetCmd() *cobra.Command {
	var (
		mrp     int64
		storage []int
	)

	cmd := &cobra.Command{
		Use:   "set <brand>",
		Short: "Create or replace the reference price for a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if mrp <= 0 {
				return errors.New("--mrp must be positive")
			}

			c := newClient()
			e, err := c.SetReference(context.Background(), args[0], mrp, storage)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(e)
			}
			fmt.Printf("Reference price for %s set to %d.\n", e.Brand, e.MRP)
			return nil
		},
	}

	cmd.Flags().Int64Var(&mrp, "mrp", 0, "new-device price (required)")
	cmd.Flags().IntSliceVar(&storage, "storage", nil, "valid storage sizes in GB, comma separated")
	cobra.CheckErr(cmd.MarkFlagRequired("mrp"))

	return cmd
}

func referencesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-derive reference prices from recorded sales",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			updated, err := c.RefreshReferences(context.Background())
			if err != nil && updated == 0 {
				return err
			}

			if jsonOutput() {
				return outputJSON(map[string]int{"updated": updated})
			}
			fmt.Printf("Updated %d reference prices.\n", updated)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Warning:", err)
			}
			return nil
		},
	}
}
