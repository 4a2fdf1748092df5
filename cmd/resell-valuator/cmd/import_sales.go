package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importSalesCmd())
}

func importSalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-sales <sales.csv>",
		Short: "Load historical sales into the database",
		Long: "Loads a sales CSV (device columns plus price) into the database for reference price\n" +
			"derivation. Rows that cannot be parsed are skipped and reported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errors.New("import-sales requires a configured database")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			sales, err := readSalesFile(args[0], log)
			if err != nil {
				return err
			}

			n, err := st.InsertSales(ctx, sales)
			if err != nil {
				return fmt.Errorf("importing sales: %w", err)
			}

			total, err := st.CountSales(ctx)
			if err != nil {
				return fmt.Errorf("counting sales: %w", err)
			}

			log.Info("sales imported", "file", args[0], "imported", n, "total", total)
			fmt.Printf("Imported %d sales (%d total).\n", n, total)
			return nil
		},
	}
}
