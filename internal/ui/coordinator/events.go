package coordinator

import (
	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
)

// TabUpdate is the tab:updated payload. Only the fields a surface event
// carried are set.
type TabUpdate struct {
	ID           entity.TabID `json:"id"`
	URL          *string      `json:"url,omitempty"`
	Title        *string      `json:"title,omitempty"`
	CanGoBack    *bool        `json:"canGoBack,omitempty"`
	CanGoForward *bool        `json:"canGoForward,omitempty"`
	IsLoading    *bool        `json:"isLoading,omitempty"`
}

func (u TabUpdate) applyTo(tab *entity.Tab[port.Surface]) {
	if u.URL != nil {
		tab.URL = *u.URL
	}
	if u.Title != nil {
		tab.Title = *u.Title
	}
	if u.CanGoBack != nil {
		tab.CanGoBack = *u.CanGoBack
	}
	if u.CanGoForward != nil {
		tab.CanGoForward = *u.CanGoForward
	}
	if u.IsLoading != nil {
		tab.IsLoading = *u.IsLoading
	}
}

// DownloadUpdate is the download:updated payload.
type DownloadUpdate struct {
	ID            entity.DownloadID     `json:"id"`
	ReceivedBytes *int64                `json:"receivedBytes,omitempty"`
	TotalBytes    *int64                `json:"totalBytes,omitempty"`
	Speed         *float64              `json:"speed,omitempty"`
	State         *entity.DownloadState `json:"state,omitempty"`
	Progress      *float64              `json:"progress,omitempty"`
	Percent       *int                  `json:"percent,omitempty"`
}

// DownloadCompletion is the download:completed payload.
type DownloadCompletion struct {
	ID    entity.DownloadID    `json:"id"`
	State entity.DownloadState `json:"state"`
	Path  string               `json:"path"`
}

// DownloadCancellation is the download:cancelled payload of a declined download.
type DownloadCancellation struct {
	ID entity.DownloadID `json:"id"`
}

func ptr[T any](v T) *T {
	return &v
}
