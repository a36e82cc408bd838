package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/multitab/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, styles.RenderBuildInfo(styles.NewTheme(out), buildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
