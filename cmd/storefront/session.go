package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// sessionCmd groups the identity subcommands
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the stored login token",
}

var sessionLoginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store a bearer token issued by the backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionLogin,
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runSessionLogout,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

func init() {
	sessionCmd.AddCommand(sessionLoginCmd)
	sessionCmd.AddCommand(sessionLogoutCmd)
	sessionCmd.AddCommand(sessionShowCmd)
}

func runSessionLogin(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		a.session.Login(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Logged in"))
		return nil
	})
}

func runSessionLogout(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		a.session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Logged out"))
		return nil
	})
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session ID:    %s\n", a.session.SessionID())
		if !a.session.Authenticated() {
			fmt.Fprintln(out, "Authenticated: no (guest)")
		} else {
			fmt.Fprintln(out, "Authenticated: yes")
			if claims, ok := a.session.Claims(); ok {
				fmt.Fprintf(out, "Subject:       %s\n", claims.Subject)
				if claims.ExpiresAt != nil {
					fmt.Fprintf(out, "Expires:       %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
				}
			}
		}
		if redirect := a.session.PendingRedirect(); redirect != "" {
			fmt.Fprintf(out, "Login needed:  %s\n", redirect)
		}
		return nil
	})
}
