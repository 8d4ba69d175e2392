package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/GTDGit/storefront/internal/notify"
	"github.com/GTDGit/storefront/pkg/storefront"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// runWithApp wires the app for a one-shot command, runs fn, then prints the
// toasts fn raised.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	rec := &notify.Recorder{}
	a, err := newApp(ctx, cfg, appOptions{notifier: rec, clipboard: true})
	if err != nil {
		return err
	}
	defer a.Close()

	runErr := fn(ctx, a)
	printToasts(cmd.OutOrStdout(), rec.Toasts())

	if errors.Is(runErr, storefront.ErrUnauthorized) {
		if redirect := a.session.PendingRedirect(); redirect != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Session expired. Log in via %s, then run \"storefront session login <token>\".\n", redirect)
		}
	}
	return runErr
}

func printToasts(w io.Writer, toasts []notify.Toast) {
	for _, t := range toasts {
		switch t.Level {
		case notify.LevelSuccess:
			fmt.Fprintln(w, successStyle.Render("✓ "+t.Message))
		case notify.LevelError:
			fmt.Fprintln(w, errorStyle.Render("✗ "+t.Message))
		default:
			fmt.Fprintln(w, infoStyle.Render("• "+t.Message))
		}
	}
}

// printTable renders rows under headers, or a placeholder line when empty.
func printTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, infoStyle.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
