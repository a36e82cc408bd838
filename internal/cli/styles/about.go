package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/multitab/internal/domain/build"
)

// RenderBuildInfo renders the version block shown by "multitab version".
func RenderBuildInfo(theme *Theme, info build.Info) string {
	row := func(key, value string) string {
		return fmt.Sprintf("  %s %s", theme.Subtle.Render(fmt.Sprintf("%-8s", key+":")), value)
	}

	lines := []string{
		theme.Title.Render("multitab " + info.Version),
		row("commit", theme.Highlight.Render(info.Commit)),
		row("built", info.BuildDate),
		row("go", info.GoVersion),
		row("repo", build.RepoURL()),
	}
	return strings.Join(lines, "\n") + "\n"
}
