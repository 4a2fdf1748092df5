package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func watchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watches",
		Short: "Manage price watches",
		Long: "Manage price watches. A watch values one device configuration on\n" +
			"every check and alerts when the valuation drops to or below its target.",
	}

	cmd.AddCommand(
		watchListCmd(),
		watchGetCmd(),
		watchCreateCmd(),
		watchEnableCmd(),
		watchDisableCmd(),
		watchDeleteCmd(),
		watchAlertsCmd(),
		watchCheckCmd(),
	)

	return cmd
}

func watchListCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List price watches",
		Example: `  rvctl watches list
  rvctl watches list --enabled --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			watches, err := c.ListWatches(context.Background(), enabledOnly)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(watches)
			}
			if len(watches) == 0 {
				fmt.Println("No watches found.")
				return nil
			}
			return printWatchTable(os.Stdout, watches)
		},
	}

	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only enabled watches")

	return cmd
}

func watchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show watch details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			w, err := c.GetWatch(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(w)
			}
			return printWatchDetail(os.Stdout, w)
		},
	}
}

func watchCreateCmd() *cobra.Command {
	var (
		w      domain.PriceWatch
		damage string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a price watch",
		Long: "Create a price watch. Age and battery health default to the server's\n" +
			"configured values when omitted.",
		Example: `  rvctl watches create --name "Cheap iPhone" --brand "iPhone 15" \
    --storage 256 --condition Excellent --target 55000`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if w.Name == "" || w.Brand == "" || w.Condition == "" {
				return errors.New("--name, --brand and --condition are required")
			}
			if w.TargetPrice <= 0 {
				return errors.New("--target must be positive")
			}
			w.DamageLevel = domain.DamageLevel(damage)
			w.Enabled = true

			c := newClient()
			created, err := c.CreateWatch(context.Background(), &w)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Watch created: %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&w.Name, "name", "", "watch name")
	cmd.Flags().StringVar(&w.Brand, "brand", "", "brand name")
	cmd.Flags().IntVar(&w.StorageGB, "storage", 128, "storage in GB")
	cmd.Flags().StringVar(&w.Condition, "condition", "", "condition label")
	cmd.Flags().IntVar(&w.AgeMonths, "age", 0, "device age in months (server default when 0)")
	cmd.Flags().IntVar(&w.BatteryHealth, "battery", 0, "battery health percent (server default when 0)")
	cmd.Flags().StringVar(&damage, "damage", "", "damage level (None, Minor, Moderate, Significant)")
	cmd.Flags().Int64Var(&w.TargetPrice, "target", 0, "alert at or below this price")

	return cmd
}

func watchEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runWatchSetEnabled(args[0], true)
		},
	}
}

func watchDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runWatchSetEnabled(args[0], false)
		},
	}
}

func watchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a watch and its alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteWatch(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Watch %s deleted.\n", args[0])
			return nil
		},
	}
}

func watchAlertsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "alerts <id>",
		Short: "List the alerts of a watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			alerts, err := c.ListWatchAlerts(context.Background(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Println("No alerts.")
				return nil
			}
			return printAlertTable(os.Stdout, alerts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum alerts to return")

	return cmd
}

func watchCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check every enabled watch now",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			res, err := c.CheckWatches(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Printf("Checked %d watches: %d triggered, %d failed.\n", res.Checked, res.Triggered, res.Failed)
			return nil
		},
	}
}

func runWatchSetEnabled(id string, enabled bool) error {
	c := newClient()
	if err := c.SetWatchEnabled(context.Background(), id, enabled); err != nil {
		return err
	}

	action := "enabled"
	if !enabled {
		action = "disabled"
	}
	fmt.Printf("Watch %s %s.\n", id, action)
	return nil
}
