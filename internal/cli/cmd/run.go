package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/multitab/internal/bootstrap"
	"github.com/bnema/multitab/internal/infrastructure/config"
	"github.com/bnema/multitab/internal/logging"
)

var (
	runHeadless bool
	runListen   string
	runNoBridge bool
)

var runCmd = &cobra.Command{
	Use:   "run [url...]",
	Short: "Start the browser shell",
	Long: `Start the browser shell and open one tab per URL argument.

Without arguments a single tab opens on the configured homepage. Arguments
that do not look like URLs are sent to the default search engine.

Examples:
  multitab run
  multitab run example.com "!gh chromedp"
  multitab run --headless --listen 127.0.0.1:9000`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run the browser without a visible window")
	runCmd.Flags().StringVar(&runListen, "listen", "", "bridge listen address (overrides config)")
	runCmd.Flags().BoolVar(&runNoBridge, "no-bridge", false, "do not start the bridge endpoint")
}

func runShell(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := app.Config.Get()
	applyRunFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(app.Ctx(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	rt, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	app.Config.OnConfigChange(func(updated *config.Config) {
		log.Info().Msg("configuration reloaded")
		rt.Apply(ctx, updated)
	})
	if err := app.Config.Watch(); err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	}

	err = rt.Run(ctx, args)
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	return err
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = runHeadless
	}
	if runListen != "" {
		cfg.Bridge.Listen = runListen
	}
	if runNoBridge {
		cfg.Bridge.Enabled = false
	}
}
