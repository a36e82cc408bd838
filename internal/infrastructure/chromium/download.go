package chromium

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/browser"
	"golang.org/x/sys/unix"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// DownloadItem is a transfer written to the staging directory under its
// GUID. Once it completes and a destination is bound, the file is moved there.
type DownloadItem struct {
	guid              string
	url               string
	suggestedFilename string
	stagingPath       string
	cancel            func(guid string) error

	mu        sync.Mutex
	total     int64
	received  int64
	savePath  string
	callbacks *port.DownloadItemCallbacks
	finished  bool
	final     port.TransferState
	delivered bool
}

var _ port.DownloadItem = (*DownloadItem)(nil)

func newDownloadItem(guid, url, suggested, stagingDir string, cancel func(string) error) *DownloadItem {
	return &DownloadItem{
		guid:              guid,
		url:               url,
		suggestedFilename: suggested,
		stagingPath:       filepath.Join(stagingDir, guid),
		cancel:            cancel,
		total:             -1,
	}
}

func (d *DownloadItem) SuggestedFilename() string { return d.suggestedFilename }
func (d *DownloadItem) URL() string               { return d.url }

// MimeType is not reported by DevTools download events.
func (d *DownloadItem) MimeType() string { return "" }

func (d *DownloadItem) TotalBytes() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total
}

func (d *DownloadItem) ReceivedBytes() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.received
}

// SetSavePath binds the destination. A transfer that already finished is
// moved right away.
func (d *DownloadItem) SetSavePath(path string) error {
	if path == "" {
		return errors.New("save path is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.savePath != "" {
		return fmt.Errorf("save path already set to %s", d.savePath)
	}
	d.savePath = path
	if d.finished && d.final == port.TransferCompleted {
		d.final = d.moveLocked()
	}
	return nil
}

// SetCallbacks registers the handlers. A transfer that ended before the
// handlers existed reports its outcome now.
func (d *DownloadItem) SetCallbacks(callbacks *port.DownloadItemCallbacks) {
	d.mu.Lock()
	d.callbacks = callbacks
	replay := d.finished && !d.delivered && callbacks != nil && callbacks.OnDone != nil
	if replay {
		d.delivered = true
	}
	final := d.final
	d.mu.Unlock()

	if replay {
		go callbacks.OnDone(final)
	}
}

// Cancel stops the transfer, or discards the staged file if it already finished.
func (d *DownloadItem) Cancel() error {
	d.mu.Lock()
	finished, bound := d.finished, d.savePath != ""
	d.mu.Unlock()

	if finished {
		if !bound {
			if err := os.Remove(d.stagingPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("discard staged download: %w", err)
			}
		}
		return nil
	}
	return d.cancel(d.guid)
}

// progress applies a DevTools progress event and fires the matching signal.
func (d *DownloadItem) progress(total, received int64, state browser.DownloadProgressState) {
	d.mu.Lock()
	if d.finished {
		d.mu.Unlock()
		return
	}
	if total > 0 {
		d.total = total
	}
	d.received = received

	switch state {
	case browser.DownloadProgressStateInProgress:
		cb := d.callbacks
		d.mu.Unlock()
		if cb != nil && cb.OnUpdated != nil {
			cb.OnUpdated(port.TransferProgressing)
		}
		return
	case browser.DownloadProgressStateCompleted:
		d.final = port.TransferCompleted
		if d.savePath != "" {
			d.final = d.moveLocked()
		}
	default:
		d.final = port.TransferCancelled
	}
	d.finished = true

	cb := d.callbacks
	fire := cb != nil && cb.OnDone != nil
	if fire {
		d.delivered = true
	}
	final := d.final
	d.mu.Unlock()

	if fire {
		cb.OnDone(final)
	}
}

func (d *DownloadItem) moveLocked() port.TransferState {
	if err := moveFile(d.stagingPath, d.savePath); err != nil {
		return port.TransferInterrupted
	}
	return port.TransferCompleted
}

// moveFile renames src to dst, copying only when they sit on different
// filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("move download: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy download: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	_ = os.Remove(src)
	return nil
}

func (h *Host) onDownloadWillBegin(ev *browser.EventDownloadWillBegin) {
	item := newDownloadItem(ev.GUID, ev.URL, ev.SuggestedFilename, h.stagingDir, h.cancelDownload)

	h.mu.Lock()
	h.downloads[ev.GUID] = item
	handler := h.onWillDownload
	h.mu.Unlock()

	if handler == nil {
		logging.FromContext(h.ctx).Warn().Str("url", ev.URL).Msg("download started with no handler, cancelling")
		go func() { _ = item.Cancel() }()
		return
	}
	go handler(item)
}

func (h *Host) onDownloadProgress(ev *browser.EventDownloadProgress) {
	h.mu.Lock()
	item, ok := h.downloads[ev.GUID]
	if ok && ev.State != browser.DownloadProgressStateInProgress {
		delete(h.downloads, ev.GUID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	item.progress(int64(ev.TotalBytes), int64(ev.ReceivedBytes), ev.State)
}

func (h *Host) cancelDownload(guid string) error {
	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()
	if err := browser.CancelDownload(guid).Do(h.browserExecutor(ctx)); err != nil {
		return fmt.Errorf("cancel download %s: %w", guid, err)
	}
	return nil
}
