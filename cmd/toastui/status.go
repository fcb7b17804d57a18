package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/core"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the running host's toast count in Waybar's custom module format.

  "custom/toasts": {
    "exec": "toastui status",
    "interval": 2,
    "return-type": "json",
    "on-click": "toastui clear"
  }

The alt and class fields carry the most severe variant on screen
(danger, warning, success, info, default), "empty" when there are no
toasts and "offline" when no host is running.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var toasts []model.Notification
	err := withClient(func(ctx context.Context, c *dbus.Client) error {
		var err error
		toasts, err = c.List(ctx)
		return err
	})

	if errors.Is(err, dbus.ErrNoHost) {
		return outputStatus(cmd.OutOrStdout(), WaybarStatus{Alt: "offline", Class: "offline"})
	}
	if err != nil {
		logger.Debug("failed to query host", "error", err)
		return outputStatus(cmd.OutOrStdout(), WaybarStatus{Alt: "error", Class: "error"})
	}

	return outputStatus(cmd.OutOrStdout(), generateStatus(toasts))
}

// generateStatus creates a WaybarStatus from the toasts on screen.
func generateStatus(toasts []model.Notification) WaybarStatus {
	if len(toasts) == 0 {
		return WaybarStatus{Alt: "empty", Class: "empty"}
	}

	counts := core.CountByVariant(toasts)
	class := string(core.MostSevere(toasts))

	var lines []string
	for _, v := range core.VariantsBySeverity() {
		if counts[v] > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", v, counts[v]))
		}
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", len(toasts)),
		Alt:        class,
		Tooltip:    fmt.Sprintf("%d on screen\n%s", len(toasts), strings.Join(lines, "\n")),
		Class:      class,
		Percentage: min(len(toasts), 100),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(w io.Writer, status WaybarStatus) error {
	return json.NewEncoder(w).Encode(status)
}
