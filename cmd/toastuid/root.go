package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/logging"
)

const (
	appID   = "io.github.jmylchreest.toastuid"
	appName = "toastuid"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var opts struct {
	verbose    bool
	configPath string
	noBus      bool
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Desktop toast popups for Wayland compositors",
	Long: `toastuid shows toast notifications as layer-shell popups stacked in a
screen corner. It exports the stack on the session bus so that
'toastui show', 'toastui list' and friends can drive it, and can
optionally stand in for org.freedesktop.Notifications.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(os.Stderr, opts.verbose)
		slog.SetDefault(logger)

		cfg, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return run(cfg, logger)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "",
		"Path to config file (default: ~/.config/toastui/toastui.toml)")
	rootCmd.Flags().BoolVar(&opts.noBus, "no-bus", false,
		"Do not export the stack on the session bus")
}

func configPath() string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.ConfigPath()
}
