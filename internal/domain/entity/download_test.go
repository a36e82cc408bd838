package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestDownloadState_IsTerminal(t *testing.T) {
	assert.False(t, DownloadProgressing.IsTerminal())
	assert.True(t, DownloadCompleted.IsTerminal())
	assert.True(t, DownloadFailed.IsTerminal())
	assert.True(t, DownloadCancelled.IsTerminal())
}

func TestDownload_PercentMatchesReceivedOverTotal(t *testing.T) {
	tests := []struct {
		received, total int64
		progress        float64
		percent         int
	}{
		{0, 1000, 0, 0},
		{250, 1000, 0.25, 25},
		{333, 1000, 0.333, 33},
		{999, 1000, 0.999, 100},
		{1000, 1000, 1, 100},
		{500, 0, 0, 0},
		{500, -1, 0, 0},
	}
	for _, tt := range tests {
		d := NewDownload("dl", "f", "/tmp/f", tt.total, t0)
		require.NoError(t, d.SetReceived(tt.received))
		assert.InDelta(t, tt.progress, d.Progress(), 1e-9)
		assert.Equal(t, tt.percent, d.Percent(), "received=%d total=%d", tt.received, tt.total)
	}
}

func TestDownload_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []DownloadState{DownloadCompleted, DownloadFailed, DownloadCancelled} {
		d := NewDownload("dl", "f", "/tmp/f", 10, t0)
		require.NoError(t, d.Finish(terminal, t0.Add(time.Second)))
		assert.Equal(t, terminal, d.State)
		assert.Equal(t, t0.Add(time.Second), d.EndTime)

		for _, next := range []DownloadState{DownloadCompleted, DownloadFailed, DownloadCancelled} {
			assert.ErrorIs(t, d.Finish(next, t0.Add(time.Hour)), ErrTerminalState)
		}
		assert.ErrorIs(t, d.SetReceived(5), ErrTerminalState)
		assert.Equal(t, terminal, d.State)
		assert.Equal(t, t0.Add(time.Second), d.EndTime)
	}
}

func TestDownload_FinishRejectsNonTerminalTarget(t *testing.T) {
	d := NewDownload("dl", "f", "/tmp/f", 10, t0)
	err := d.Finish(DownloadProgressing, t0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, DownloadProgressing, d.State)
}

func TestDownload_View(t *testing.T) {
	d := NewDownload("dl-1", "a.zip", "/tmp/a.zip", 1000, t0)
	require.NoError(t, d.SetReceived(500))

	v := d.View()
	assert.Equal(t, DownloadID("dl-1"), v.ID)
	assert.Equal(t, 0.5, v.Progress)
	assert.Equal(t, 50, v.Percent)
	assert.Equal(t, t0.UnixMilli(), v.StartTime)
	assert.Nil(t, v.EndTime)

	require.NoError(t, d.Finish(DownloadCompleted, t0.Add(2*time.Second)))
	v = d.View()
	require.NotNil(t, v.EndTime)
	assert.Equal(t, t0.Add(2*time.Second).UnixMilli(), *v.EndTime)
}

func TestDownloadList_RemoveFinished(t *testing.T) {
	list := NewDownloadList()
	progressing := NewDownload("p", "p", "/p", 10, t0)
	completed := NewDownload("c", "c", "/c", 10, t0)
	failed := NewDownload("f", "f", "/f", 10, t0)
	require.NoError(t, completed.Finish(DownloadCompleted, t0))
	require.NoError(t, failed.Finish(DownloadFailed, t0))

	list.Add(progressing)
	list.Add(completed)
	list.Add(failed)
	assert.Equal(t, 1, list.ActiveCount())
	assert.Equal(t, 1, list.CompletedCount())

	removed := list.RemoveFinished()
	assert.Equal(t, []DownloadID{"c", "f"}, removed)
	assert.Equal(t, 1, list.Count())
	_, ok := list.Find("p")
	assert.True(t, ok)
}

func TestDownloadList_AddRemove(t *testing.T) {
	list := NewDownloadList()
	require.True(t, list.Add(NewDownload("a", "a", "/a", 1, t0)))
	assert.False(t, list.Add(NewDownload("a", "a", "/a", 1, t0)))
	require.True(t, list.Add(NewDownload("b", "b", "/b", 1, t0)))

	assert.True(t, list.Remove("a"))
	assert.False(t, list.Remove("a"))

	all := list.All()
	require.Len(t, all, 1)
	assert.Equal(t, DownloadID("b"), all[0].ID)
	assert.Empty(t, NewDownloadList().RemoveFinished())
}
