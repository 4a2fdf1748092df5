package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apiclient "github.com/donaldgifford/resell-valuator/internal/api/client"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func batchCmd() *cobra.Command {
	var (
		output     string
		margin     float64
		confidence float64
		withRange  bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv|file.yaml>",
		Short: "Value a file of devices",
		Long: "Values every device in a file. CSV files are uploaded to the bulk endpoint and the\n" +
			"valued CSV is written to --output (or stdout). YAML files hold a list of device records\n" +
			"and are sent to the batch endpoint; failures are listed per record.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if margin > 0 && confidence > 0 {
				return errors.New("--margin and --confidence are mutually exclusive")
			}
			p := apiclient.Pricing{Margin: margin, Confidence: confidence}

			path := args[0]
			if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
				return runRecordBatch(path, p)
			}
			return runCSVBatch(path, output, p, withRange)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "O", "", "output CSV path (default stdout)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "relative half-width of the price range")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "confidence level; sets the margin to (1-c)/2")
	cmd.Flags().BoolVar(&withRange, "range", false, "add price_lower and price_upper columns")

	return cmd
}

func runCSVBatch(path, output string, p apiclient.Pricing, withRange bool) error {
	in, err := os.Open(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	c := newClient()
	res, err := c.ValuateCSV(context.Background(), in, p, withRange)
	if err != nil {
		return err
	}

	if output == "" {
		if _, err := os.Stdout.Write(res.CSV); err != nil {
			return err
		}
	} else if err := os.WriteFile(output, res.CSV, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(os.Stderr, "Valued %d rows, %d failed.", res.Succeeded+res.Failed, res.Failed)
	if res.RunID != "" {
		fmt.Fprintf(os.Stderr, " Run %s.", res.RunID)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func runRecordBatch(path string, p apiclient.Pricing) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var records []domain.DeviceRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c := newClient()
	rep, err := c.ValuateBatch(context.Background(), records, p)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(rep)
	}
	return printBatchReport(os.Stdout, rep)
}
