package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/store"
)

var (
	wishlistCached bool
	productTitle   string
	productPrice   string
)

// wishlistCmd groups the wishlist subcommands
var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Inspect and edit the wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wishlist items",
	Args:  cobra.NoArgs,
	RunE:  runWishlistList,
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <productId>",
	Short: "Add a product to the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistAdd,
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <itemId>",
	Short: "Remove a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistRemove,
}

var wishlistMoveCmd = &cobra.Command{
	Use:   "move <itemId>",
	Short: "Move a wishlist item to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistMove,
}

var wishlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every wishlist item",
	Args:  cobra.NoArgs,
	RunE:  runWishlistClear,
}

var wishlistCheckCmd = &cobra.Command{
	Use:   "check <productId>",
	Short: "Ask the backend whether a product is wishlisted",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistCheck,
}

var wishlistStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show wishlist totals",
	Args:  cobra.NoArgs,
	RunE:  runWishlistStats,
}

var wishlistRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently added products",
	Args:  cobra.NoArgs,
	RunE:  runWishlistRecent,
}

var wishlistShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create a share link for the wishlist",
	Long: `Encode the wishlist into a link under STOREFRONT_ORIGIN and copy it to the
clipboard when one is available. Nothing is stored on the backend.`,
	Args: cobra.NoArgs,
	RunE: runWishlistShare,
}

var wishlistOpenCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Show the contents of a wishlist share link",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistOpen,
}

var wishlistBulkRemoveCmd = &cobra.Command{
	Use:   "bulk-remove <itemId>...",
	Short: "Remove several wishlist items",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWishlistBulkRemove,
}

var wishlistBulkMoveCmd = &cobra.Command{
	Use:   "bulk-move <itemId>...",
	Short: "Move several wishlist items to the cart",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWishlistBulkMove,
}

func init() {
	wishlistListCmd.Flags().BoolVar(&wishlistCached, "cached", false, "Show the local copy without contacting the backend")
	for _, c := range []*cobra.Command{wishlistAddCmd, cartAddCmd} {
		c.Flags().StringVar(&productTitle, "title", "", "Product title shown in messages")
		c.Flags().StringVar(&productPrice, "price", "", "Product price, used until the next refresh")
	}

	wishlistCmd.AddCommand(wishlistListCmd)
	wishlistCmd.AddCommand(wishlistAddCmd)
	wishlistCmd.AddCommand(wishlistRemoveCmd)
	wishlistCmd.AddCommand(wishlistMoveCmd)
	wishlistCmd.AddCommand(wishlistClearCmd)
	wishlistCmd.AddCommand(wishlistCheckCmd)
	wishlistCmd.AddCommand(wishlistStatsCmd)
	wishlistCmd.AddCommand(wishlistRecentCmd)
	wishlistCmd.AddCommand(wishlistShareCmd)
	wishlistCmd.AddCommand(wishlistOpenCmd)
	wishlistCmd.AddCommand(wishlistBulkRemoveCmd)
	wishlistCmd.AddCommand(wishlistBulkMoveCmd)
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		if !wishlistCached {
			if err := a.wishlist.GetWishlist(ctx); err != nil {
				return err
			}
		}
		rows := make([][]string, 0)
		for _, item := range a.wishlist.Items() {
			rows = append(rows, []string{
				strconv.FormatInt(item.ID, 10),
				strconv.FormatInt(item.ProductID, 10),
				item.Product.Title,
				priceLabel(item.Product),
				stockLabel(item.Product),
			})
		}
		printTable(cmd.OutOrStdout(), "Your wishlist is empty.",
			[]string{"ID", "PRODUCT", "TITLE", "PRICE", "STOCK"}, rows)
		return nil
	})
}

func runWishlistAdd(cmd *cobra.Command, args []string) error {
	product, err := productFromFlags(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.wishlist.AddToWishlist(ctx, product)
	})
}

func runWishlistRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.wishlist.RemoveFromWishlist(ctx, id)
	})
}

func runWishlistMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.wishlist.MoveToCart(ctx, id)
	})
}

func runWishlistClear(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return a.wishlist.ClearWishlist(ctx)
	})
}

func runWishlistCheck(cmd *cobra.Command, args []string) error {
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		if a.wishlist.CheckWishlistItem(ctx, productID) {
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d is in your wishlist.\n", productID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Product %d is not in your wishlist.\n", productID)
		}
		return nil
	})
}

func runWishlistStats(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		stats, err := a.wishlist.Stats(ctx)
		if err != nil {
			return err
		}
		printTable(cmd.OutOrStdout(), "", []string{"ITEMS", "VALUE", "IN STOCK", "OUT OF STOCK", "ON SALE"}, [][]string{{
			strconv.Itoa(stats.TotalItems),
			stats.TotalValue.StringFixed(2),
			strconv.Itoa(stats.InStock),
			strconv.Itoa(stats.OutOfStock),
			strconv.Itoa(stats.OnSale),
		}})
		return nil
	})
}

func runWishlistRecent(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		rows := make([][]string, 0)
		for _, p := range a.wishlist.GetRecentlyAdded() {
			rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Title, priceLabel(p)})
		}
		printTable(cmd.OutOrStdout(), "Nothing added recently.", []string{"PRODUCT", "TITLE", "PRICE"}, rows)
		return nil
	})
}

func runWishlistShare(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		link, err := a.wishlist.ShareWishlist()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	})
}

func runWishlistOpen(cmd *cobra.Command, args []string) error {
	shared, err := store.DecodeSharedWishlist(args[0])
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(shared.Items))
	for _, item := range shared.Items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ProductID, 10),
			item.Title,
			item.Author,
			item.Price.StringFixed(2),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Shared %s\n", shared.SharedAt.Local().Format("2 Jan 2006 15:04"))
	printTable(cmd.OutOrStdout(), "The shared wishlist is empty.", []string{"PRODUCT", "TITLE", "AUTHOR", "PRICE"}, rows)
	return nil
}

func runWishlistBulkRemove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		_, err := a.wishlist.BulkRemoveFromWishlist(ctx, ids)
		return err
	})
}

func runWishlistBulkMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		_, err := a.wishlist.BulkMoveToCart(ctx, ids)
		return err
	})
}

// productFromFlags builds the product snapshot passed to add commands. The
// backend response fills in whatever the flags leave out.
func productFromFlags(arg string) (models.Product, error) {
	id, err := parseID(arg)
	if err != nil {
		return models.Product{}, err
	}
	p := models.Product{ID: id, Title: productTitle}
	if productPrice != "" {
		if p.Price, err = decimal.NewFromString(productPrice); err != nil {
			return models.Product{}, fmt.Errorf("invalid --price %q: %w", productPrice, err)
		}
	}
	return p, nil
}

func priceLabel(p models.Product) string {
	if p.OnSale() {
		return fmt.Sprintf("%s (was %s)", p.SalePrice.StringFixed(2), p.Price.StringFixed(2))
	}
	return p.Price.StringFixed(2)
}

func stockLabel(p models.Product) string {
	if !p.InStock() {
		return "out of stock"
	}
	return strconv.Itoa(p.Stock)
}
