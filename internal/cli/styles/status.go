package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/infrastructure/bridge"
)

const maxCellWidth = 48

// RenderTabs renders the tab listing as a table with the active row highlighted.
func RenderTabs(theme *Theme, listing bridge.TabListing) string {
	if len(listing.Tabs) == 0 {
		return theme.Subtle.Render("no tabs open") + "\n"
	}

	rows := make([][]string, 0, len(listing.Tabs))
	active := -1
	for i, tab := range listing.Tabs {
		if tab.ID == listing.Active {
			active = i
		}
		rows = append(rows, []string{marker(tab.ID == listing.Active), truncate(tab.Title), truncate(tab.URL), tabState(tab)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Subtle.Foreground(theme.Border)).
		Headers("", "TITLE", "URL", "STATE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.Header
			case row == active:
				return theme.ActiveCell
			default:
				return theme.Cell
			}
		})

	return theme.Title.Render(fmt.Sprintf("Tabs (%d)", len(listing.Tabs))) + "\n" + t.String() + "\n"
}

// RenderDownloads renders the download listing. Rows are expected to
// carry display strings.
func RenderDownloads(theme *Theme, listing bridge.DownloadListing) string {
	title := theme.Title.Render(fmt.Sprintf("Downloads (%d active, %d completed)", listing.Active, listing.Completed))
	if len(listing.Downloads) == 0 {
		return title + "\n" + theme.Subtle.Render("no downloads") + "\n"
	}

	rows := make([][]string, 0, len(listing.Downloads))
	for _, d := range listing.Downloads {
		rows = append(rows, []string{truncate(d.Filename), string(d.State), fmt.Sprintf("%d%%", d.Percent), sizeColumn(d), speedColumn(d)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Subtle.Foreground(theme.Border)).
		Headers("FILE", "STATE", "DONE", "SIZE", "SPEED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header
			}
			if col == 1 && row >= 0 && row < len(listing.Downloads) {
				return stateStyle(theme, listing.Downloads[row].State)
			}
			return theme.Cell
		})

	return title + "\n" + t.String() + "\n"
}

func stateStyle(theme *Theme, state entity.DownloadState) lipgloss.Style {
	switch state {
	case entity.DownloadCompleted:
		return theme.SuccessStyle.Padding(0, 1)
	case entity.DownloadFailed:
		return theme.ErrorStyle.Padding(0, 1)
	case entity.DownloadCancelled:
		return theme.WarningStyle.Padding(0, 1)
	default:
		return theme.Cell
	}
}

func sizeColumn(d bridge.DownloadRow) string {
	if d.Human == nil {
		return fmt.Sprintf("%d/%d", d.ReceivedBytes, d.TotalBytes)
	}
	return d.Human.Received + " / " + d.Human.Total
}

func speedColumn(d bridge.DownloadRow) string {
	if d.Human == nil || d.Human.Speed == "" {
		return "-"
	}
	if d.Human.ETA == "" {
		return d.Human.Speed
	}
	return d.Human.Speed + " (" + d.Human.ETA + ")"
}

func tabState(tab entity.TabSnapshot) string {
	if tab.IsLoading {
		return "loading"
	}
	return "ready"
}

func marker(active bool) string {
	if active {
		return "*"
	}
	return " "
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return strings.TrimSpace(string(r[:maxCellWidth-1])) + "…"
}
