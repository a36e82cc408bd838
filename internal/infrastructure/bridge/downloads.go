package bridge

import (
	"net/http"

	"github.com/bnema/multitab/internal/domain/download"
	"github.com/bnema/multitab/internal/domain/entity"
)

// DownloadListing is the GET /downloads reply.
type DownloadListing struct {
	Downloads []DownloadRow `json:"downloads"`
	Active    int           `json:"active"`
	Completed int           `json:"completed"`
}

// DownloadRow is a download record, optionally with display strings.
type DownloadRow struct {
	entity.DownloadView
	Speed float64       `json:"speed"`
	Human *HumanMetrics `json:"human,omitempty"`
}

// HumanMetrics are pre-formatted strings for a download row.
type HumanMetrics struct {
	Received string `json:"received"`
	Total    string `json:"total"`
	Speed    string `json:"speed"`
	ETA      string `json:"eta"`
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	human := r.URL.Query().Get("human") != ""

	views := s.commands.GetDownloads(ctx)
	writeJSON(ctx, w, http.StatusOK, buildListing(views, s.hub.Speed, human))
}

func buildListing(views []entity.DownloadView, speedOf func(entity.DownloadID) float64, human bool) DownloadListing {
	listing := DownloadListing{Downloads: make([]DownloadRow, 0, len(views))}
	for _, v := range views {
		row := DownloadRow{DownloadView: v}
		switch v.State {
		case entity.DownloadProgressing:
			listing.Active++
			row.Speed = speedOf(v.ID)
		case entity.DownloadCompleted:
			listing.Completed++
		}
		if human {
			row.Human = humanize(v, row.Speed)
		}
		listing.Downloads = append(listing.Downloads, row)
	}
	return listing
}

func humanize(v entity.DownloadView, speed float64) *HumanMetrics {
	h := &HumanMetrics{
		Received: download.FormatSize(v.ReceivedBytes),
		Total:    download.FormatSize(v.TotalBytes),
	}
	if v.State == entity.DownloadProgressing {
		h.Speed = download.FormatSpeed(speed)
		h.ETA = download.FormatETA(download.ETASeconds(v.ReceivedBytes, v.TotalBytes, speed))
	}
	return h
}
