package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var alertsRefresh bool

// alertsCmd groups the price alert subcommands. Alerts live only in local
// storage.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage price alerts on wishlisted products",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List price alerts",
	Args:  cobra.NoArgs,
	RunE:  runAlertsList,
}

var alertsAddCmd = &cobra.Command{
	Use:   "add <productId> <targetPrice>",
	Short: "Alert when a product drops to a target price",
	Args:  cobra.ExactArgs(2),
	RunE:  runAlertsAdd,
}

var alertsRemoveCmd = &cobra.Command{
	Use:   "remove <productId>",
	Short: "Remove the alert on a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsRemove,
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check alerts against current prices",
	Args:  cobra.NoArgs,
	RunE:  runAlertsCheck,
}

func init() {
	alertsCheckCmd.Flags().BoolVar(&alertsRefresh, "refresh", true, "Fetch current prices before checking")

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsAddCmd)
	alertsCmd.AddCommand(alertsRemoveCmd)
	alertsCmd.AddCommand(alertsCheckCmd)
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		rows := make([][]string, 0)
		for _, alert := range a.wishlist.PriceAlerts() {
			state := "armed"
			if !alert.IsActive {
				state = "fired"
			}
			current := "-"
			if alert.CurrentPrice.IsPositive() {
				current = alert.CurrentPrice.StringFixed(2)
			}
			rows = append(rows, []string{
				strconv.FormatInt(alert.ProductID, 10),
				alert.TargetPrice.StringFixed(2),
				current,
				state,
			})
		}
		printTable(cmd.OutOrStdout(), "No price alerts set.", []string{"PRODUCT", "TARGET", "LAST SEEN", "STATE"}, rows)
		return nil
	})
}

func runAlertsAdd(cmd *cobra.Command, args []string) error {
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	target, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid target price %q: %w", args[1], err)
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.wishlist.AddPriceAlert(ctx, productID, target)
	})
}

func runAlertsRemove(cmd *cobra.Command, args []string) error {
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		a.wishlist.RemovePriceAlert(ctx, productID)
		return nil
	})
}

func runAlertsCheck(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		if alertsRefresh {
			if err := a.wishlist.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("Checking against cached prices")
			}
		}
		if triggered := a.wishlist.CheckPriceAlerts(ctx); len(triggered) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No alerts triggered."))
		}
		return nil
	})
}
