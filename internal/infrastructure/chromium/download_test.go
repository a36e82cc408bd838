package chromium

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/application/port"
)

type doneRecorder struct {
	mu      sync.Mutex
	updates int
	done    []port.TransferState
}

func (r *doneRecorder) callbacks() *port.DownloadItemCallbacks {
	return &port.DownloadItemCallbacks{
		OnUpdated: func(port.TransferState) {
			r.mu.Lock()
			r.updates++
			r.mu.Unlock()
		},
		OnDone: func(state port.TransferState) {
			r.mu.Lock()
			r.done = append(r.done, state)
			r.mu.Unlock()
		},
	}
}

func (r *doneRecorder) outcomes() []port.TransferState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]port.TransferState(nil), r.done...)
}

func stageItem(t *testing.T, guid string, content string) (*DownloadItem, string) {
	t.Helper()
	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staging, guid), []byte(content), 0o644))
	item := newDownloadItem(guid, "https://example.com/file.pdf", "file.pdf", staging, func(string) error { return nil })
	return item, staging
}

func TestDownloadItemProgressAndCompletion(t *testing.T) {
	item, _ := stageItem(t, "guid-1", "payload")
	dest := filepath.Join(t.TempDir(), "file.pdf")
	rec := &doneRecorder{}

	require.NoError(t, item.SetSavePath(dest))
	item.SetCallbacks(rec.callbacks())

	item.progress(1000, 250, browser.DownloadProgressStateInProgress)
	assert.Equal(t, int64(1000), item.TotalBytes())
	assert.Equal(t, int64(250), item.ReceivedBytes())

	item.progress(1000, 1000, browser.DownloadProgressStateCompleted)
	assert.Equal(t, []port.TransferState{port.TransferCompleted}, rec.outcomes())
	assert.Equal(t, 1, rec.updates)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	item.progress(1000, 1000, browser.DownloadProgressStateCompleted)
	assert.Len(t, rec.outcomes(), 1, "done fires once")
}

func TestDownloadItemUnknownTotalKeepsPrevious(t *testing.T) {
	item, _ := stageItem(t, "guid-2", "")

	assert.Equal(t, int64(-1), item.TotalBytes())
	item.progress(0, 10, browser.DownloadProgressStateInProgress)
	assert.Equal(t, int64(-1), item.TotalBytes())
	item.progress(500, 20, browser.DownloadProgressStateInProgress)
	item.progress(0, 30, browser.DownloadProgressStateInProgress)
	assert.Equal(t, int64(500), item.TotalBytes())
}

func TestDownloadItemCompletesBeforeDestination(t *testing.T) {
	item, _ := stageItem(t, "guid-3", "early")
	dest := filepath.Join(t.TempDir(), "early.bin")
	rec := &doneRecorder{}

	item.progress(5, 5, browser.DownloadProgressStateCompleted)

	require.NoError(t, item.SetSavePath(dest))
	item.SetCallbacks(rec.callbacks())

	require.Eventually(t, func() bool { return len(rec.outcomes()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, port.TransferCompleted, rec.outcomes()[0])
	assert.FileExists(t, dest)
}

func TestDownloadItemMoveFailureIsInterrupted(t *testing.T) {
	item, _ := stageItem(t, "guid-4", "data")
	rec := &doneRecorder{}

	require.NoError(t, item.SetSavePath(filepath.Join(t.TempDir(), "missing", "dir", "out.bin")))
	item.SetCallbacks(rec.callbacks())
	item.progress(4, 4, browser.DownloadProgressStateCompleted)

	assert.Equal(t, []port.TransferState{port.TransferInterrupted}, rec.outcomes())
}

func TestDownloadItemCanceledByEngine(t *testing.T) {
	item, _ := stageItem(t, "guid-5", "")
	rec := &doneRecorder{}
	item.SetCallbacks(rec.callbacks())

	item.progress(100, 40, browser.DownloadProgressStateCanceled)

	assert.Equal(t, []port.TransferState{port.TransferCancelled}, rec.outcomes())
}

func TestDownloadItemSetSavePath(t *testing.T) {
	item, _ := stageItem(t, "guid-6", "")

	assert.Error(t, item.SetSavePath(""))
	require.NoError(t, item.SetSavePath("/tmp/a"))
	assert.Error(t, item.SetSavePath("/tmp/b"), "destination is bound once")
}

func TestDownloadItemCancel(t *testing.T) {
	t.Run("running transfer asks the engine", func(t *testing.T) {
		var cancelled []string
		item := newDownloadItem("guid-7", "", "", t.TempDir(), func(guid string) error {
			cancelled = append(cancelled, guid)
			return nil
		})

		require.NoError(t, item.Cancel())
		assert.Equal(t, []string{"guid-7"}, cancelled)
	})

	t.Run("engine error is returned", func(t *testing.T) {
		item := newDownloadItem("guid-8", "", "", t.TempDir(), func(string) error { return errors.New("gone") })
		assert.Error(t, item.Cancel())
	})

	t.Run("finished unbound transfer discards staged file", func(t *testing.T) {
		item, staging := stageItem(t, "guid-9", "tmp")
		item.progress(3, 3, browser.DownloadProgressStateCompleted)

		require.NoError(t, item.Cancel())
		assert.NoFileExists(t, filepath.Join(staging, "guid-9"))
	})
}

func TestMoveFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	dst := filepath.Join(t.TempDir(), "dst")
	require.NoError(t, os.WriteFile(src, []byte("bytes"), 0o644))

	require.NoError(t, moveFile(src, dst))

	assert.NoFileExists(t, src)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(got))

	assert.Error(t, moveFile(src, dst), "missing source")
}

func TestMoveFileKeepsSourceWhenRenameFails(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte("bytes"), 0o644))
	dst := filepath.Join(t.TempDir(), "missing-dir", "dst")

	err := moveFile(src, dst)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "move download")
	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)
}
