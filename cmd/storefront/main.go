package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/storefront/internal/config"
)

var (
	verbose bool
	timeout time.Duration

	// cfg is loaded once per invocation, before any command runs.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Wishlist and cart client for the bookstore API",
	Long: `storefront keeps a local copy of the signed-in user's wishlist and cart,
in step with the bookstore backend.

Run "storefront serve" for the HTTP backend-for-frontend with background
workers, or use the wishlist, alerts, cart and session commands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Name() == serveCmd.Name() {
			setupLogger(cfg.Env, os.Stdout)
			return nil
		}
		// One-shot commands keep stdout for their output.
		setupLogger(cfg.Env, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		if !verbose {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for one-shot commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wishlistCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(sessionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogger(env string, out io.Writer) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
