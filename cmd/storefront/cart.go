package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	cartCached   bool
	cartQuantity int
)

// cartCmd groups the cart subcommands
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and edit the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cart lines and subtotal",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <productId>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <lineId> <quantity>",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartUpdate,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <lineId>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartShowCmd.Flags().BoolVar(&cartCached, "cached", false, "Show the local copy without contacting the backend")
	cartAddCmd.Flags().IntVarP(&cartQuantity, "quantity", "q", 1, "Units to add")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		if !cartCached {
			if err := a.cart.RefreshCart(ctx); err != nil {
				return err
			}
		}
		cart := a.cart.Cart()
		rows := make([][]string, 0, len(cart.Items))
		for _, line := range cart.Items {
			rows = append(rows, []string{
				strconv.FormatInt(line.ID, 10),
				strconv.FormatInt(line.ProductID, 10),
				line.Product.Title,
				strconv.Itoa(line.Quantity),
				priceLabel(line.Product),
			})
		}
		printTable(cmd.OutOrStdout(), "Your cart is empty.", []string{"LINE", "PRODUCT", "TITLE", "QTY", "PRICE"}, rows)
		if len(rows) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d items, subtotal %s\n", cart.TotalItems, cart.Subtotal.StringFixed(2))
		}
		return nil
	})
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	product, err := productFromFlags(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.cart.AddToCart(ctx, product, cartQuantity)
	})
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.cart.UpdateQuantity(ctx, id, quantity); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Line %d set to %d.\n", id, quantity)
		return nil
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.cart.RemoveFromCart(ctx, id)
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.cart.ClearCart(ctx)
	})
}
