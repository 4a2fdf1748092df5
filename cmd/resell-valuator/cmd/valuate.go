package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/pkg/bulk"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func init() {
	rootCmd.AddCommand(valuateCmd())
}

func valuateCmd() *cobra.Command {
	var (
		output     string
		margin     float64
		confidence float64
		withRange  bool
		maxRows    int
	)

	cmd := &cobra.Command{
		Use:   "valuate <input.csv>",
		Short: "Value a CSV of devices offline",
		Long: "Values every row of a CSV with the configured model and writes the rows back with\n" +
			"predicted_price, adjusted_price, status and error columns appended. Rows that cannot be\n" +
			"valued are kept with status \"error\". A summary is printed to stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("margin") && cmd.Flags().Changed("confidence") {
				return errors.New("--margin and --confidence are mutually exclusive")
			}

			var opts []engine.CallOption
			switch {
			case cmd.Flags().Changed("margin"):
				opts = append(opts, engine.Margin(margin))
			case cmd.Flags().Changed("confidence"):
				opts = append(opts, engine.Confidence(confidence))
			}

			return runValuate(cmd.Context(), args[0], output, withRange, maxRows, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default stdout)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "relative half-width of the price range")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "confidence level in (0, 1]; sets the margin to (1-c)/2")
	cmd.Flags().BoolVar(&withRange, "range", false, "add price_lower and price_upper columns")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "reject inputs with more rows (default from config)")

	return cmd
}

func runValuate(
	ctx context.Context,
	inPath, outPath string,
	withRange bool,
	maxRows int,
	opts []engine.CallOption,
) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if maxRows == 0 {
		maxRows = cfg.Batch.MaxRows
	}

	bundle, err := loadArtifacts(cfg, log)
	if err != nil {
		return fmt.Errorf("loading artifacts: %w", err)
	}

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
	refs, err := newReferenceStore(entries, nil, log)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, bundle, refs, log)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath) //nolint:gosec // path from CLI argument
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	tbl, err := bulk.Read(in, bulk.WithMaxRows(maxRows))
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	started := time.Now()
	report, err := eng.ValuateRows(ctx, tbl.Rows, opts...)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := bulk.Write(out, tbl, report.Items, bulk.WriteOptions{PriceRange: withRange}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if st != nil {
		run := domain.NewValuationRun(uuid.NewString(), domain.RunSourceCLI, started, &report.Summary)
		if err := st.InsertValuationRun(ctx, run); err != nil {
			log.Warn("recording valuation run failed", "error", err)
		}
	}

	return printSummary(os.Stderr, &report.Summary)
}
