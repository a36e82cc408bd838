package coordinator

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/application/usecase"
	"github.com/bnema/multitab/internal/domain/download"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/eventbus"
)

// transfer is the engine side of a confirmed download.
type transfer struct {
	item  port.DownloadItem
	speed *download.SpeedMeter
}

// DownloadCoordinator runs the download lifecycle for the shared session.
type DownloadCoordinator struct {
	downloads *entity.DownloadList
	transfers map[entity.DownloadID]*transfer

	prompt  port.SavePrompt
	desktop port.Desktop
	prepare *usecase.PrepareDownloadUseCase
	events  port.EventPublisher
	post    func(func()) bool

	downloadDir string
	now         func() time.Time
	newID       func() entity.DownloadID
}

// DownloadCoordinatorConfig holds configuration for DownloadCoordinator.
type DownloadCoordinatorConfig struct {
	Downloads   *entity.DownloadList
	Prompt      port.SavePrompt
	Desktop     port.Desktop
	Prepare     *usecase.PrepareDownloadUseCase
	Events      port.EventPublisher
	Post        func(func()) bool
	DownloadDir string
	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() entity.DownloadID
}

// NewDownloadCoordinator creates a new DownloadCoordinator.
func NewDownloadCoordinator(ctx context.Context, cfg DownloadCoordinatorConfig) *DownloadCoordinator {
	log := logging.FromContext(ctx)
	log.Debug().Str("dir", cfg.DownloadDir).Msg("creating download coordinator")

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() entity.DownloadID { return entity.DownloadID("dl-" + uuid.NewString()) }
	}
	prepare := cfg.Prepare
	if prepare == nil {
		prepare = usecase.NewPrepareDownloadUseCase(nil)
	}
	downloads := cfg.Downloads
	if downloads == nil {
		downloads = entity.NewDownloadList()
	}

	return &DownloadCoordinator{
		downloads:   downloads,
		transfers:   make(map[entity.DownloadID]*transfer),
		prompt:      cfg.Prompt,
		desktop:     cfg.Desktop,
		prepare:     prepare,
		events:      cfg.Events,
		post:        cfg.Post,
		downloadDir: cfg.DownloadDir,
		now:         now,
		newID:       newID,
	}
}

// Attach subscribes to new transfers on the shared session.
func (c *DownloadCoordinator) Attach(ctx context.Context, session port.DownloadSession) {
	session.OnWillDownload(func(item port.DownloadItem) {
		if !c.post(func() { c.HandleWillDownload(ctx, item) }) {
			logging.FromContext(ctx).Debug().Str("url", item.URL()).Msg("download refused, loop stopped")
			_ = item.Cancel()
		}
	})
}

// SetDownloadDir changes where default save paths point.
func (c *DownloadCoordinator) SetDownloadDir(dir string) {
	c.downloadDir = dir
}

// HandleWillDownload starts the save prompt for a new transfer. The prompt
// runs on its own goroutine and its answer is posted back to the loop.
func (c *DownloadCoordinator) HandleWillDownload(ctx context.Context, item port.DownloadItem) {
	id := c.newID()
	ctx = logging.WithDownloadID(ctx, string(id))
	log := logging.FromContext(ctx)

	prepared := c.prepare.Execute(ctx, usecase.PrepareDownloadInput{
		SuggestedFilename: item.SuggestedFilename(),
		SourceURL:         item.URL(),
		MimeType:          item.MimeType(),
		DownloadDir:       c.downloadDir,
	})
	log.Debug().Str("url", item.URL()).Str("default_path", prepared.DestinationPath).Msg("download requested")

	go func() {
		path, err := c.prompt.AskSavePath(ctx, prepared.DestinationPath)
		if !c.post(func() { c.resolvePrompt(ctx, id, item, path, err) }) {
			_ = item.Cancel()
		}
	}()
}

func (c *DownloadCoordinator) resolvePrompt(ctx context.Context, id entity.DownloadID, item port.DownloadItem, path string, err error) {
	log := logging.FromContext(ctx)

	if err == nil && path == "" {
		err = port.ErrPromptDeclined
	}
	if err == nil {
		if setErr := item.SetSavePath(path); setErr != nil {
			err = setErr
		}
	}
	if err != nil {
		if !errors.Is(err, port.ErrPromptDeclined) {
			log.Warn().Err(err).Msg("save prompt failed, dropping download")
		}
		if cancelErr := item.Cancel(); cancelErr != nil {
			log.Debug().Err(cancelErr).Msg("failed to cancel declined transfer")
		}
		c.events.Publish(eventbus.DownloadCancelled, DownloadCancellation{ID: id})
		return
	}

	filename := item.SuggestedFilename()
	if filename == "" {
		filename = filepath.Base(path)
	}
	now := c.now()
	dl := entity.NewDownload(id, filename, path, item.TotalBytes(), now)
	c.downloads.Add(dl)
	c.transfers[id] = &transfer{item: item, speed: download.NewSpeedMeter(now)}

	item.SetCallbacks(&port.DownloadItemCallbacks{
		OnUpdated: func(state port.TransferState) {
			c.post(func() { c.HandleUpdated(ctx, id, state) })
		},
		OnDone: func(state port.TransferState) {
			c.post(func() { c.HandleDone(ctx, id, state) })
		},
	})

	c.events.Publish(eventbus.DownloadAdded, dl.View())
	log.Info().Str("path", path).Int64("total", dl.TotalBytes).Msg("download started")
}

// HandleUpdated applies a progress tick. Ticks for finished or removed
// downloads are ignored.
func (c *DownloadCoordinator) HandleUpdated(ctx context.Context, id entity.DownloadID, state port.TransferState) {
	dl, tr, ok := c.live(id)
	if !ok {
		return
	}

	now := c.now()
	received := tr.item.ReceivedBytes()
	if total := tr.item.TotalBytes(); total > 0 {
		dl.TotalBytes = total
	}
	_ = dl.SetReceived(received)

	// The transfer stays tracked so its done signal still closes the download out.
	if state == port.TransferInterrupted {
		_ = dl.Finish(entity.DownloadFailed, now)
	}

	speed := tr.speed.Sample(received, now)
	c.events.Publish(eventbus.DownloadUpdated, DownloadUpdate{
		ID:            id,
		ReceivedBytes: ptr(dl.ReceivedBytes),
		TotalBytes:    ptr(dl.TotalBytes),
		Speed:         ptr(speed),
		State:         ptr(dl.State),
		Progress:      ptr(dl.Progress()),
		Percent:       ptr(dl.Percent()),
	})

	logging.FromContext(ctx).Trace().
		Int("percent", dl.Percent()).
		Str("speed", download.FormatSpeed(speed)).
		Str("state", string(dl.State)).
		Msg("download progress")
}

// HandleDone records the end of a transfer and announces it. A download
// that already failed keeps its state. Cancelled or removed downloads are
// not announced.
func (c *DownloadCoordinator) HandleDone(ctx context.Context, id entity.DownloadID, state port.TransferState) {
	dl, ok := c.downloads.Find(id)
	tr, tracked := c.transfers[id]
	if !ok || !tracked {
		return
	}
	delete(c.transfers, id)

	if !dl.State.IsTerminal() {
		final := entity.DownloadFailed
		if state == port.TransferCompleted {
			final = entity.DownloadCompleted
			_ = dl.SetReceived(tr.item.ReceivedBytes())
		}
		_ = dl.Finish(final, c.now())
	}

	c.events.Publish(eventbus.DownloadCompleted, DownloadCompletion{ID: id, State: dl.State, Path: dl.Path})
	logging.FromContext(ctx).Info().
		Str("state", string(dl.State)).
		Str("size", download.FormatSize(dl.ReceivedBytes)).
		Int("active", c.downloads.ActiveCount()).
		Msg("download finished")
}

// live returns a progressing download and its transfer.
func (c *DownloadCoordinator) live(id entity.DownloadID) (*entity.Download, *transfer, bool) {
	dl, ok := c.downloads.Find(id)
	if !ok || dl.State.IsTerminal() {
		return nil, nil, false
	}
	tr, ok := c.transfers[id]
	if !ok {
		return nil, nil, false
	}
	return dl, tr, true
}

// Cancel marks a progressing download cancelled and asks the engine to
// stop it. Other states are left alone.
func (c *DownloadCoordinator) Cancel(ctx context.Context, id entity.DownloadID) {
	log := logging.FromContext(ctx)

	dl, ok := c.downloads.Find(id)
	if !ok || dl.State != entity.DownloadProgressing {
		log.Debug().Str("download_id", string(id)).Msg("cancel ignored")
		return
	}

	_ = dl.Finish(entity.DownloadCancelled, c.now())
	if tr, ok := c.transfers[id]; ok {
		if err := tr.item.Cancel(); err != nil {
			log.Debug().Err(err).Str("download_id", string(id)).Msg("engine cancel failed")
		}
		delete(c.transfers, id)
	}

	c.events.Publish(eventbus.DownloadUpdated, DownloadUpdate{ID: id, State: ptr(dl.State)})
	log.Info().Str("download_id", string(id)).Msg("download cancelled")
}

// All returns every download with derived progress, in creation order.
func (c *DownloadCoordinator) All() []entity.DownloadView {
	downloads := c.downloads.All()
	out := make([]entity.DownloadView, 0, len(downloads))
	for _, dl := range downloads {
		out = append(out, dl.View())
	}
	return out
}

// Open opens a completed download with its default application.
func (c *DownloadCoordinator) Open(ctx context.Context, id entity.DownloadID) {
	dl, ok := c.downloads.Find(id)
	if !ok || dl.State != entity.DownloadCompleted {
		return
	}
	if err := c.desktop.OpenPath(ctx, dl.Path); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", dl.Path).Msg("failed to open download")
	}
}

// ShowInFolder reveals any known download in the file manager.
func (c *DownloadCoordinator) ShowInFolder(ctx context.Context, id entity.DownloadID) {
	dl, ok := c.downloads.Find(id)
	if !ok {
		return
	}
	if err := c.desktop.ShowItemInFolder(ctx, dl.Path); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", dl.Path).Msg("failed to show download in folder")
	}
}

// Remove forgets a download whatever its state and always announces it.
func (c *DownloadCoordinator) Remove(ctx context.Context, id entity.DownloadID) {
	removed := c.downloads.Remove(id)
	delete(c.transfers, id)
	c.events.Publish(eventbus.DownloadRemoved, string(id))
	logging.FromContext(ctx).Debug().Str("download_id", string(id)).Bool("known", removed).Msg("download removed")
}

// ClearCompleted forgets every download that is no longer progressing.
func (c *DownloadCoordinator) ClearCompleted(ctx context.Context) {
	removed := c.downloads.RemoveFinished()
	for _, id := range removed {
		delete(c.transfers, id)
	}
	c.events.Publish(eventbus.DownloadCleared, removed)
	logging.FromContext(ctx).Debug().Int("removed", len(removed)).Msg("finished downloads cleared")
}
