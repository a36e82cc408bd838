package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/multitab/internal/cli/styles"
	"github.com/bnema/multitab/internal/infrastructure/bridge"
)

var statusAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tabs and downloads of a running instance",
	Long: `Query the bridge of a running multitab instance and print its tabs
and downloads.

The address defaults to bridge.listen from the config file.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusAddr, "addr", "", "bridge address (overrides config)")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	addr := statusAddr
	if addr == "" {
		addr = app.Config.Get().Bridge.Listen
	}
	client := bridge.NewClient(addr)
	ctx := cmd.Context()

	tabs, err := client.Tabs(ctx)
	if err != nil {
		return fmt.Errorf("is multitab running with the bridge enabled? %w", err)
	}
	downloads, err := client.Downloads(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	theme := styles.NewTheme(out)
	fmt.Fprint(out, styles.RenderTabs(theme, tabs))
	fmt.Fprintln(out)
	fmt.Fprint(out, styles.RenderDownloads(theme, downloads))
	return nil
}
