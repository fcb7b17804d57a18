package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/adapter/input"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
)

var pipeOpts struct {
	format  string
	variant string
	ids     bool
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Show a toast for every line read from stdin",
	Long: `Read toasts from stdin and show them on the running host until the
input ends.

The lines format shows each non-empty line. A "variant:" prefix picks
the variant for that line. The json format reads a stream of objects
with message (or summary and body) and variant fields.

Examples:
  make 2>&1 | grep -i error | toastui pipe --variant danger
  journalctl -f -o cat | toastui pipe
  echo '{"message":"Deployed","variant":"success"}' | toastui pipe -f json`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().StringVarP(&pipeOpts.format, "format", "f", "lines",
		"Input format ("+strings.Join(input.Sources(), ", ")+")")
	pipeCmd.Flags().StringVarP(&pipeOpts.variant, "variant", "V", string(model.VariantDefault),
		"Variant for input that does not name one")
	pipeCmd.Flags().BoolVar(&pipeOpts.ids, "print-ids", false,
		"Print the id of every toast shown")
}

func runPipe(cmd *cobra.Command, args []string) error {
	variant := model.Variant(pipeOpts.variant)
	if !variant.Valid() {
		return fmt.Errorf("invalid variant %q, must be one of: %v", pipeOpts.variant, model.Variants())
	}
	adapter, err := input.NewAdapter(pipeOpts.format, cmd.InOrStdin(), variant)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, clientTimeout)
	c, err := dbus.Connect(connectCtx)
	cancel()
	if err != nil {
		if errors.Is(err, dbus.ErrNoHost) {
			return fmt.Errorf("%w: start one with 'toastui', 'toastui serve' or toastuid", err)
		}
		return err
	}
	defer func() { _ = c.Close() }()

	shown := 0
	err = adapter.Read(ctx, func(req input.Request) error {
		callCtx, cancel := context.WithTimeout(ctx, clientTimeout)
		defer cancel()

		id, err := c.Show(callCtx, req.Message, req.Variant)
		if err != nil {
			return err
		}
		shown++
		if pipeOpts.ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	})

	logger.Debug("pipe finished", "adapter", adapter.Name(), "shown", shown)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
