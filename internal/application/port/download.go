package port

import "context"

// TransferState is what the engine reports about an ongoing transfer.
type TransferState int

const (
	// TransferProgressing means bytes are still flowing.
	TransferProgressing TransferState = iota
	// TransferInterrupted means the transfer stopped on an error.
	TransferInterrupted
	// TransferCompleted means every byte was written.
	TransferCompleted
	// TransferCancelled means the engine cancelled the transfer.
	TransferCancelled
)

// String returns a human-readable representation of the transfer state.
func (s TransferState) String() string {
	switch s {
	case TransferProgressing:
		return "progressing"
	case TransferInterrupted:
		return "interrupted"
	case TransferCompleted:
		return "completed"
	case TransferCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DownloadItemCallbacks are the signals of a single transfer.
type DownloadItemCallbacks struct {
	// OnUpdated is called on each progress tick.
	OnUpdated func(state TransferState)
	// OnDone is called once when the transfer ends.
	OnDone func(state TransferState)
}

// DownloadItem is an intercepted transfer on the shared session.
type DownloadItem interface {
	SuggestedFilename() string
	URL() string
	MimeType() string
	// TotalBytes returns the expected size, or a non-positive value when unknown.
	TotalBytes() int64
	ReceivedBytes() int64
	// SetSavePath binds the destination chosen by the user.
	SetSavePath(path string) error
	// SetCallbacks registers the transfer signal handlers.
	SetCallbacks(callbacks *DownloadItemCallbacks)
	// Cancel asks the engine to stop the transfer. Best effort.
	Cancel() error
}

// DownloadSession is the download intercept of the shared network session.
type DownloadSession interface {
	// OnWillDownload registers the single handler for new transfers.
	OnWillDownload(handler func(item DownloadItem))
}

// SavePrompt asks the user where to save a download.
type SavePrompt interface {
	// AskSavePath blocks until the user picks a path or declines.
	// Declining returns ErrPromptDeclined.
	AskSavePath(ctx context.Context, suggestedPath string) (string, error)
}
