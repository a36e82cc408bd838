package entity

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DownloadID uniquely identifies a download.
type DownloadID string

// DownloadState is the lifecycle state of a download.
type DownloadState string

const (
	DownloadProgressing DownloadState = "progressing"
	DownloadCompleted   DownloadState = "completed"
	DownloadFailed      DownloadState = "failed"
	DownloadCancelled   DownloadState = "cancelled"
)

// ErrTerminalState is returned when a finished download is asked to change.
var ErrTerminalState = errors.New("download is in a terminal state")

// IsTerminal reports whether the state admits no further transition.
func (s DownloadState) IsTerminal() bool {
	switch s {
	case DownloadCompleted, DownloadFailed, DownloadCancelled:
		return true
	default:
		return false
	}
}

// Download is a download the user agreed to save.
// A zero EndTime means the download has not finished.
type Download struct {
	ID            DownloadID
	Filename      string
	Path          string
	TotalBytes    int64
	ReceivedBytes int64
	State         DownloadState
	StartTime     time.Time
	EndTime       time.Time
}

// NewDownload creates a progressing download with nothing received yet.
func NewDownload(id DownloadID, filename, path string, totalBytes int64, now time.Time) *Download {
	return &Download{
		ID:         id,
		Filename:   filename,
		Path:       path,
		TotalBytes: totalBytes,
		State:      DownloadProgressing,
		StartTime:  now,
	}
}

// Progress returns the received fraction, or 0 when the total is unknown.
func (d *Download) Progress() float64 {
	return ComputeProgress(d.ReceivedBytes, d.TotalBytes)
}

// Percent returns Progress as a rounded percentage.
func (d *Download) Percent() int {
	return ComputePercent(d.Progress())
}

// SetReceived records the bytes received so far.
func (d *Download) SetReceived(received int64) error {
	if d.State.IsTerminal() {
		return ErrTerminalState
	}
	d.ReceivedBytes = received
	return nil
}

// Finish moves a progressing download to a terminal state.
func (d *Download) Finish(state DownloadState, now time.Time) error {
	if !state.IsTerminal() {
		return fmt.Errorf("finish download %s: %q is not a terminal state", d.ID, state)
	}
	if d.State.IsTerminal() {
		return ErrTerminalState
	}
	d.State = state
	d.EndTime = now
	return nil
}

// ComputeProgress returns received/total, or 0 when total is not positive.
func ComputeProgress(received, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(received) / float64(total)
}

// ComputePercent converts a progress fraction to a rounded percentage.
func ComputePercent(progress float64) int {
	return int(math.Round(progress * 100))
}

// DownloadView is the serializable form of a download with derived metrics attached.
type DownloadView struct {
	ID            DownloadID    `json:"id"`
	Filename      string        `json:"filename"`
	Path          string        `json:"path"`
	TotalBytes    int64         `json:"totalBytes"`
	ReceivedBytes int64         `json:"receivedBytes"`
	State         DownloadState `json:"state"`
	StartTime     int64         `json:"startTime"`
	EndTime       *int64        `json:"endTime,omitempty"`
	Progress      float64       `json:"progress"`
	Percent       int           `json:"percent"`
}

// View projects the download with progress and percent recomputed.
// Times are Unix milliseconds.
func (d *Download) View() DownloadView {
	v := DownloadView{
		ID:            d.ID,
		Filename:      d.Filename,
		Path:          d.Path,
		TotalBytes:    d.TotalBytes,
		ReceivedBytes: d.ReceivedBytes,
		State:         d.State,
		StartTime:     d.StartTime.UnixMilli(),
		Progress:      d.Progress(),
		Percent:       d.Percent(),
	}
	if !d.EndTime.IsZero() {
		end := d.EndTime.UnixMilli()
		v.EndTime = &end
	}
	return v
}

// DownloadList owns downloads keyed by ID in insertion order.
type DownloadList struct {
	order     []DownloadID
	downloads map[DownloadID]*Download
}

// NewDownloadList creates an empty download list.
func NewDownloadList() *DownloadList {
	return &DownloadList{
		order:     make([]DownloadID, 0),
		downloads: make(map[DownloadID]*Download),
	}
}

// Add registers a download. Returns false if the ID is already taken.
func (l *DownloadList) Add(d *Download) bool {
	if d == nil {
		return false
	}
	if _, exists := l.downloads[d.ID]; exists {
		return false
	}
	l.downloads[d.ID] = d
	l.order = append(l.order, d.ID)
	return true
}

// Find returns the download with the given ID.
func (l *DownloadList) Find(id DownloadID) (*Download, bool) {
	d, ok := l.downloads[id]
	return d, ok
}

// Remove drops a download. Returns false if the ID is unknown.
func (l *DownloadList) Remove(id DownloadID) bool {
	if _, ok := l.downloads[id]; !ok {
		return false
	}
	delete(l.downloads, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveFinished drops every download that is no longer progressing
// and returns their IDs in insertion order.
func (l *DownloadList) RemoveFinished() []DownloadID {
	removed := make([]DownloadID, 0)
	kept := l.order[:0]
	for _, id := range l.order {
		if l.downloads[id].State == DownloadProgressing {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, id)
		delete(l.downloads, id)
	}
	l.order = kept
	return removed
}

// All returns downloads in insertion order.
func (l *DownloadList) All() []*Download {
	out := make([]*Download, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.downloads[id])
	}
	return out
}

// Count returns the number of downloads.
func (l *DownloadList) Count() int {
	return len(l.order)
}

// ActiveCount returns how many downloads are still progressing.
func (l *DownloadList) ActiveCount() int {
	return l.countState(DownloadProgressing)
}

// CompletedCount returns how many downloads completed successfully.
func (l *DownloadList) CompletedCount() int {
	return l.countState(DownloadCompleted)
}

func (l *DownloadList) countState(state DownloadState) int {
	n := 0
	for _, d := range l.downloads {
		if d.State == state {
			n++
		}
	}
	return n
}
