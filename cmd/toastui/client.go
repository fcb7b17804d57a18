package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
)

// clientTimeout bounds every one-shot client command.
const clientTimeout = 5 * time.Second

var showOpts struct {
	variant string
	quiet   bool
}

var showCmd = &cobra.Command{
	Use:   "show MESSAGE...",
	Short: "Show a toast on the running host",
	Long: `Show a toast on the running host and print its id.

Examples:
  toastui show "Saved"
  toastui show --variant success Build finished
  id=$(toastui show -V warning "Disk almost full") && toastui dismiss "$id"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

var dismissOpts struct {
	filter string
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [ID...]",
	Short: "Dismiss toasts on the running host",
	Long: `Dismiss toasts by id, or every toast matching --filter. Unknown or
already dismissed ids are ignored.

Examples:
  toastui dismiss 3
  toastui dismiss --filter "variant=info"
  toastui dismiss --filter "age>1m"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if dismissOpts.filter == "" && len(args) == 0 {
			return fmt.Errorf("requires at least one id or --filter")
		}
		return nil
	},
	RunE: runDismiss,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every toast from the running host",
	Long:  `Remove every toast at once, without exit transitions or dismissed events.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(clearCmd)

	showCmd.Flags().StringVarP(&showOpts.variant, "variant", "V", string(model.VariantDefault),
		"Toast variant (default, success, warning, danger, info)")
	showCmd.Flags().BoolVarP(&showOpts.quiet, "quiet", "q", false,
		"Do not print the toast id")
	dismissCmd.Flags().StringVar(&dismissOpts.filter, "filter", "",
		"Dismiss every toast matching this filter expression")
}

// withClient connects to the running host and calls fn.
func withClient(fn func(ctx context.Context, c *dbus.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	c, err := dbus.Connect(ctx)
	if err != nil {
		if errors.Is(err, dbus.ErrNoHost) {
			return fmt.Errorf("%w: start one with 'toastui', 'toastui serve' or toastuid", err)
		}
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(ctx, c)
}

func runShow(cmd *cobra.Command, args []string) error {
	variant := model.Variant(showOpts.variant)
	if !variant.Valid() {
		return fmt.Errorf("invalid variant %q, must be one of: %v", showOpts.variant, model.Variants())
	}
	message := strings.Join(args, " ")

	return withClient(func(ctx context.Context, c *dbus.Client) error {
		id, err := c.Show(ctx, message, variant)
		if err != nil {
			return err
		}
		if !showOpts.quiet {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	})
}

func runDismiss(cmd *cobra.Command, args []string) error {
	ids := make([]model.ID, 0, len(args))
	for _, arg := range args {
		id, err := model.ParseID(arg)
		if err != nil {
			return fmt.Errorf("invalid toast id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}

	var expr *core.FilterExpr
	if dismissOpts.filter != "" {
		var err error
		expr, err = core.ParseFilter(dismissOpts.filter)
		if err != nil {
			return fmt.Errorf("invalid --filter: %w", err)
		}
	}

	return withClient(func(ctx context.Context, c *dbus.Client) error {
		if expr != nil {
			toasts, err := c.List(ctx)
			if err != nil {
				return err
			}
			for _, n := range core.FilterWithExpr(toasts, expr) {
				if n.Active() {
					ids = append(ids, n.ID)
				}
			}
		}
		for _, id := range ids {
			if err := c.Dismiss(ctx, id); err != nil {
				return fmt.Errorf("failed to dismiss toast %s: %w", id, err)
			}
		}
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		return c.Clear(ctx)
	})
}
