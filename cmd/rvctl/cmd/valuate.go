package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/resell-valuator/internal/api/client"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// deviceFlags collects a device record from command flags.
type deviceFlags struct {
	rec        domain.DeviceRecord
	damage     string
	margin     float64
	confidence float64
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.rec.Brand, "brand", "", "brand (required)")
	fl.StringVar(&f.rec.Model, "model", "", "model name")
	fl.IntVar(&f.rec.StorageGB, "storage", 128, "storage in GB (64, 128, 256, 512)")
	fl.StringVar(&f.rec.Condition, "condition", "Good", "condition (Fair, Good, Excellent, Like New)")
	fl.IntVar(&f.rec.AgeMonths, "age", 0, "age in months")
	fl.IntVar(&f.rec.BatteryHealth, "battery", 100, "battery health percentage")
	fl.StringVar(&f.damage, "damage", "None", "damage level (None, Minor, Moderate, Significant)")
	fl.Float64Var(&f.margin, "margin", 0, "relative half-width of the price range")
	fl.Float64Var(&f.confidence, "confidence", 0, "confidence level; sets the margin to (1-c)/2")
	cobra.CheckErr(cmd.MarkFlagRequired("brand"))
}

func (f *deviceFlags) record() domain.DeviceRecord {
	rec := f.rec
	rec.DamageLevel = domain.DamageLevel(f.damage)
	return rec
}

func (f *deviceFlags) pricing() (apiclient.Pricing, error) {
	if f.margin > 0 && f.confidence > 0 {
		return apiclient.Pricing{}, errors.New("--margin and --confidence are mutually exclusive")
	}
	return apiclient.Pricing{Margin: f.margin, Confidence: f.confidence}, nil
}

func valuateCmd() *cobra.Command {
	var flags deviceFlags

	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Value a single device",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := flags.pricing()
			if err != nil {
				return err
			}

			c := newClient()
			res, err := c.Valuate(context.Background(), flags.record(), p)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(res)
			}
			return printValuation(os.Stdout, res)
		},
	}

	flags.register(cmd)
	return cmd
}

func scheduleCmd() *cobra.Command {
	var flags deviceFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show how a device's value changes with age",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := flags.pricing()
			if err != nil {
				return err
			}

			c := newClient()
			points, err := c.DepreciationSchedule(context.Background(), flags.record(), p)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(points)
			}

			tw := newTabWriter(os.Stdout)
			tw.writef("AGE (MONTHS)\tPREDICTED\tADJUSTED\n")
			for _, pt := range points {
				tw.writef("%d\t%d\t%d\n", pt.AgeMonths, pt.PredictedPrice, pt.AdjustedPrice)
			}
			return tw.finish()
		},
	}

	flags.register(cmd)
	return cmd
}

func printValuation(w *os.File, r *domain.ValuationResult) error {
	tw := newTabWriter(w)
	tw.writef("Brand:\t%s\n", r.Input.Brand)
	tw.writef("Schema:\t%s\n", r.Schema)
	tw.writef("Predicted:\t%d\n", r.PredictedPrice)
	tw.writef("Damage multiplier:\t%.2f\n", r.DamageMultiplier)
	tw.writef("Adjusted:\t%d\n", r.AdjustedPrice)
	tw.writef("Range:\t%d - %d\n", r.PriceRange.Low, r.PriceRange.High)
	if r.AdjustedMRP != nil {
		tw.writef("Reference MRP:\t%d\n", *r.AdjustedMRP)
	}
	if r.Savings != nil && r.SavingsPct != nil {
		tw.writef("Savings:\t%d (%d%%)\n", *r.Savings, *r.SavingsPct)
	}
	if r.RetentionPct != nil {
		tw.writef("Retention:\t%d%%\n", *r.RetentionPct)
	}
	return tw.finish()
}
