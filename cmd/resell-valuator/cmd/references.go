package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/resell-valuator/pkg/reference"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func init() {
	rootCmd.AddCommand(referencesCmd())
}

func referencesCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "references",
		Short: "Inspect and derive reference prices",
	}

	root.AddCommand(referencesListCmd(), referencesDeriveCmd())
	return root
}

func referencesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reference prices from the configured source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			entries, err := referenceEntries(ctx, cfg, st, log)
			if err != nil {
				return err
			}
			return printReferences(os.Stdout, entries)
		},
	}
}

func referencesDeriveCmd() *cobra.Command {
	var (
		salesPath string
		factor    float64
		persist   bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive reference prices from historical sales",
		Long: "Derives a reference price per brand as the highest observed sale price times the\n" +
			"derivation factor. Sales come from --sales or, when omitted, from the database.\n" +
			"The result is printed, written as a reference table with --output, or stored with --persist.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("factor") {
				factor = cfg.References.DerivationFactor
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}
			if persist && st == nil {
				return errors.New("--persist requires a configured database")
			}

			var entries []domain.ReferencePriceEntry
			switch {
			case salesPath != "":
				sales, err := readSalesFile(salesPath, log)
				if err != nil {
					return err
				}
				entries, err = reference.Derive(sales, factor)
				if err != nil {
					return err
				}
			case st != nil:
				entries, err = st.DeriveReferencePrices(ctx, factor)
				if err != nil {
					return fmt.Errorf("deriving from database: %w", err)
				}
			default:
				return errors.New("no sales source: pass --sales or configure a database")
			}

			if persist {
				refs, err := newReferenceStore(nil, st, log)
				if err != nil {
					return err
				}
				for i := range entries {
					if _, err := refs.Upsert(ctx, entries[i]); err != nil {
						return err
					}
				}
				log.Info("reference prices stored", "count", len(entries))
			}

			if output != "" {
				data, err := reference.MarshalTable(entries)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
			}

			return printReferences(os.Stdout, entries)
		},
	}

	cmd.Flags().StringVar(&salesPath, "sales", "", "sales CSV (device columns plus price)")
	cmd.Flags().Float64Var(&factor, "factor", 0, "derivation factor (default from config)")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the derived prices in the database")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the derived prices as a reference table YAML")

	return cmd
}
