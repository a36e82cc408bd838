package coordinator

import (
	"context"

	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/domain/url"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/mainloop"
)

// Shell is the command surface exposed to the display layer. Each command
// runs on the coordination loop and returns once it has been applied.
// Shell methods must not be called from the loop itself.
type Shell struct {
	loop      *mainloop.Loop
	tabs      *TabCoordinator
	content   *ContentCoordinator
	downloads *DownloadCoordinator
}

// NewShell creates a Shell over the given coordinators.
func NewShell(loop *mainloop.Loop, tabs *TabCoordinator, content *ContentCoordinator, downloads *DownloadCoordinator) *Shell {
	return &Shell{
		loop:      loop,
		tabs:      tabs,
		content:   content,
		downloads: downloads,
	}
}

// Settings are the values that can change while the shell runs.
type Settings struct {
	TabBarHeight int
	DownloadDir  string
	Resolver     url.Resolver
}

func (s *Shell) run(ctx context.Context, op string, fn func()) {
	if err := s.loop.Invoke(ctx, fn); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("op", op).Msg("shell command not applied")
	}
}

// CreateTab opens a tab and returns its id, or "" if no surface could be created.
func (s *Shell) CreateTab(ctx context.Context, input string) entity.TabID {
	var id entity.TabID
	s.run(ctx, "create tab", func() {
		created, err := s.tabs.Create(ctx, input)
		if err != nil {
			logging.FromContext(ctx).Error().Err(err).Str("url", input).Msg("failed to create tab")
			return
		}
		id = created
	})
	return id
}

// SwitchTab makes id the visible tab.
func (s *Shell) SwitchTab(ctx context.Context, id entity.TabID) {
	s.run(ctx, "switch tab", func() { s.content.Switch(ctx, id) })
}

// CloseTab closes tab id.
func (s *Shell) CloseTab(ctx context.Context, id entity.TabID) {
	s.run(ctx, "close tab", func() { s.tabs.Close(ctx, id) })
}

// Navigate loads input in tab id.
func (s *Shell) Navigate(ctx context.Context, id entity.TabID, input string) {
	s.run(ctx, "navigate", func() { s.tabs.Navigate(ctx, id, input) })
}

// GoBack navigates tab id back.
func (s *Shell) GoBack(ctx context.Context, id entity.TabID) {
	s.run(ctx, "go back", func() { s.tabs.GoBack(ctx, id) })
}

// GoForward navigates tab id forward.
func (s *Shell) GoForward(ctx context.Context, id entity.TabID) {
	s.run(ctx, "go forward", func() { s.tabs.GoForward(ctx, id) })
}

// Reload reloads tab id.
func (s *Shell) Reload(ctx context.Context, id entity.TabID) {
	s.run(ctx, "reload", func() { s.tabs.Reload(ctx, id) })
}

// GetAllTabs lists tabs in creation order.
func (s *Shell) GetAllTabs(ctx context.Context) []entity.TabSnapshot {
	tabs := []entity.TabSnapshot{}
	s.run(ctx, "get tabs", func() { tabs = s.tabs.All() })
	return tabs
}

// ActiveTab returns the visible tab id, or "".
func (s *Shell) ActiveTab(ctx context.Context) entity.TabID {
	var id entity.TabID
	s.run(ctx, "active tab", func() { id = s.content.ActiveID() })
	return id
}

// Resize refits the visible surface to the window.
func (s *Shell) Resize(ctx context.Context) {
	s.run(ctx, "resize", func() { s.content.Resize(ctx) })
}

// GetDownloads lists downloads in creation order.
func (s *Shell) GetDownloads(ctx context.Context) []entity.DownloadView {
	downloads := []entity.DownloadView{}
	s.run(ctx, "get downloads", func() { downloads = s.downloads.All() })
	return downloads
}

// OpenDownload opens a completed download.
func (s *Shell) OpenDownload(ctx context.Context, id entity.DownloadID) {
	s.run(ctx, "open download", func() { s.downloads.Open(ctx, id) })
}

// ShowInFolder reveals a download in the file manager.
func (s *Shell) ShowInFolder(ctx context.Context, id entity.DownloadID) {
	s.run(ctx, "show in folder", func() { s.downloads.ShowInFolder(ctx, id) })
}

// RemoveDownload forgets a download.
func (s *Shell) RemoveDownload(ctx context.Context, id entity.DownloadID) {
	s.run(ctx, "remove download", func() { s.downloads.Remove(ctx, id) })
}

// ClearCompleted forgets every finished download.
func (s *Shell) ClearCompleted(ctx context.Context) {
	s.run(ctx, "clear completed", func() { s.downloads.ClearCompleted(ctx) })
}

// CancelDownload cancels a progressing download.
func (s *Shell) CancelDownload(ctx context.Context, id entity.DownloadID) {
	s.run(ctx, "cancel download", func() { s.downloads.Cancel(ctx, id) })
}

// Apply pushes reloaded settings into the running coordinators.
func (s *Shell) Apply(ctx context.Context, settings Settings) {
	s.run(ctx, "apply settings", func() {
		s.tabs.SetResolver(settings.Resolver)
		if settings.DownloadDir != "" {
			s.downloads.SetDownloadDir(settings.DownloadDir)
		}
		s.content.SetTabBarHeight(ctx, settings.TabBarHeight)
	})
}
