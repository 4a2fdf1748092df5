package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/resell-valuator/internal/api/client"
)

func runsCmd() *cobra.Command {
	var (
		source string
		since  string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded batch valuation runs",
		RunE: func(_ *cobra.Command, _ []string) error {
			f := apiclient.RunsFilter{Source: source, Limit: limit, Offset: offset}
			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("invalid --since %q: %w", since, err)
				}
				f.Since = time.Now().Add(-d)
			}

			c := newClient()
			page, err := c.ListRuns(context.Background(), f)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}
			if err := printRunsTable(page.Runs); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d runs (offset %d)\n", len(page.Runs), page.Total, page.Offset)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "filter by source (api, bulk, cli)")
	cmd.Flags().StringVar(&since, "since", "", "only runs started within this duration (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "runs to skip")

	return cmd
}
