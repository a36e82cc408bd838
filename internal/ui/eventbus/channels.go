package eventbus

// Outbound channel names understood by the display layer.
const (
	TabCreated  = "tab:created"
	TabUpdated  = "tab:updated"
	TabSwitched = "tab:switched"
	TabClosed   = "tab:closed"

	DownloadAdded     = "download:added"
	DownloadUpdated   = "download:updated"
	DownloadCompleted = "download:completed"
	DownloadCancelled = "download:cancelled"
	DownloadRemoved   = "download:removed"
	DownloadCleared   = "download:cleared"
)
