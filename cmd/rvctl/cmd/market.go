package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func marketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Analyze recorded resale prices",
	}

	cmd.AddCommand(
		marketSummaryCmd(),
		marketTrendCmd(),
		marketStorageCmd(),
		marketBreakdownCmd(),
		marketRetentionCmd(),
		marketSimilarCmd(),
	)

	return cmd
}

func marketSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show overall market statistics",
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := newClient().MarketSummary(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(m)
			}
			return printMarketSummary(os.Stdout, m)
		},
	}
}

func marketTrendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend <brand>",
		Short: "Show the sale price spread of a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := newClient().BrandTrend(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(t)
			}
			return printBrandTrend(os.Stdout, t)
		},
	}
}

func marketStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage [brand]",
		Short: "Show the storage premium over 64GB",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			brand := ""
			if len(args) == 1 {
				brand = args[0]
			}
			p, err := newClient().StoragePremium(context.Background(), brand)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			if len(p.Tiers) == 0 {
				fmt.Println("No storage premium: no 64GB sales to compare against.")
				return nil
			}
			return printStoragePremium(os.Stdout, p)
		},
	}
}

func marketBreakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "breakdown <dimension>",
		Short:     "Split sales by brand, condition, storage, age or battery",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"brand", "condition", "storage", "age", "battery"},
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := newClient().Breakdown(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(b)
			}
			if len(b.Segments) == 0 {
				fmt.Println("No sales recorded.")
				return nil
			}
			return printBreakdown(os.Stdout, b)
		},
	}
}

func marketRetentionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retention",
		Short: "Rank brands by the share of the new-device price they keep",
		RunE: func(_ *cobra.Command, _ []string) error {
			r, err := newClient().Retention(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(r)
			}
			if len(r) == 0 {
				fmt.Println("No brands with both sales and a reference price.")
				return nil
			}
			return printRetention(os.Stdout, r)
		},
	}
}

func marketSimilarCmd() *cobra.Command {
	var (
		brand     string
		storageGB int
		condition string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List recent sales of the same brand, storage and condition",
		Example: `  rvctl market similar --brand "iPhone 15" --storage 256 --condition Excellent`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sales, err := newClient().SimilarSales(context.Background(), brand, storageGB, condition, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sales)
			}
			if len(sales) == 0 {
				fmt.Println("No similar sales.")
				return nil
			}
			return printSales(os.Stdout, sales)
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "brand name")
	cmd.Flags().IntVar(&storageGB, "storage", 128, "storage in GB")
	cmd.Flags().StringVar(&condition, "condition", "", "condition label")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum sales to return")
	cobra.CheckErr(cmd.MarkFlagRequired("brand"))
	cobra.CheckErr(cmd.MarkFlagRequired("condition"))

	return cmd
}
