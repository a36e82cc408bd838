// Package chromium hosts every tab as a page target of one Chromium
// process driven over the DevTools protocol. The process's default browser
// context is the shared session: cookies, cache and downloads.
package chromium

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// Options configures the browser process.
type Options struct {
	ExecPath    string
	Headless    bool
	UserDataDir string
	Width       int
	Height      int
	// StagingDir receives transfers until the user picks a destination.
	StagingDir string
}

// Host owns the browser process and routes browser-level events to the
// surfaces and downloads it created.
type Host struct {
	ctx           context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	anchorID      target.ID
	stagingDir    string

	mu             sync.Mutex
	surfaces       map[target.ID]*Surface
	popups         map[target.ID]target.ID
	downloads      map[string]*DownloadItem
	onWillDownload func(port.DownloadItem)

	doneOnce sync.Once
	done     chan struct{}
}

var (
	_ port.SurfaceFactory  = (*Host)(nil)
	_ port.DownloadSession = (*Host)(nil)
)

// NewHost starts Chromium and enables the download intercept.
func NewHost(ctx context.Context, opts Options) (*Host, error) {
	log := logging.FromContext(ctx)

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("hide-scrollbars", false),
		chromedp.Flag("mute-audio", false),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}

	stagingDir := opts.StagingDir
	if stagingDir == "" {
		dir, err := os.MkdirTemp("", "multitab-downloads-")
		if err != nil {
			return nil, fmt.Errorf("create download staging dir: %w", err)
		}
		stagingDir = dir
	} else if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download staging dir: %w", err)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug().Msgf(format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Warn().Msgf(format, args...)
		}),
	)

	h := &Host{
		ctx:           browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		stagingDir:    stagingDir,
		surfaces:      make(map[target.ID]*Surface),
		popups:        make(map[target.ID]target.ID),
		downloads:     make(map[string]*DownloadItem),
	}

	chromedp.ListenBrowser(browserCtx, h.handleBrowserEvent)

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		bctx := h.browserExecutor(ctx)
		if err := target.SetDiscoverTargets(true).Do(bctx); err != nil {
			return fmt.Errorf("discover targets: %w", err)
		}
		return browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(stagingDir).
			WithEventsEnabled(true).
			Do(bctx)
	}))
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	h.anchorID = chromedp.FromContext(browserCtx).Target.TargetID

	log.Info().Str("staging_dir", stagingDir).Bool("headless", opts.Headless).Msg("browser started")
	return h, nil
}

func (h *Host) browserExecutor(ctx context.Context) context.Context {
	return cdp.WithExecutor(ctx, chromedp.FromContext(h.ctx).Browser)
}

// Create opens a new page target in the shared browser context.
func (h *Host) Create(ctx context.Context, opts port.SurfaceOptions) (port.Surface, error) {
	tabCtx, cancel := chromedp.NewContext(h.ctx)
	s := newSurface(logging.WithComponent(ctx, "surface"), tabCtx, cancel)

	chromedp.ListenTarget(tabCtx, s.handleEvent)

	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if opts.BootstrapScript == "" {
			return nil
		}
		_, err := page.AddScriptToEvaluateOnNewDocument(opts.BootstrapScript).Do(ctx)
		return err
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open page target: %w", err)
	}

	s.targetID = chromedp.FromContext(tabCtx).Target.TargetID
	s.onDestroy = func() { h.forget(s.targetID) }

	h.mu.Lock()
	h.surfaces[s.targetID] = s
	h.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("target_id", string(s.targetID)).Msg("page target created")
	return s, nil
}

func (h *Host) forget(id target.ID) {
	h.mu.Lock()
	delete(h.surfaces, id)
	h.mu.Unlock()
}

func (h *Host) surface(id target.ID) (*Surface, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.surfaces[id]
	return s, ok
}

// OnWillDownload registers the handler for new transfers.
func (h *Host) OnWillDownload(handler func(item port.DownloadItem)) {
	h.mu.Lock()
	h.onWillDownload = handler
	h.mu.Unlock()
}

// Done is closed when the browser connection is lost or the host is closed.
func (h *Host) Done() <-chan struct{} {
	h.doneOnce.Do(func() {
		h.done = make(chan struct{})
		go h.watchConnection()
	})
	return h.done
}

func (h *Host) watchConnection() {
	defer close(h.done)
	var lost <-chan struct{}
	if c := chromedp.FromContext(h.ctx); c != nil && c.Browser != nil {
		lost = c.Browser.LostConnection
	}
	select {
	case <-h.ctx.Done():
	case <-lost:
	}
}

// Close stops the browser.
func (h *Host) Close() {
	h.browserCancel()
	h.allocCancel()
}

// handleBrowserEvent runs on the chromedp event goroutine and must not
// issue blocking commands itself.
func (h *Host) handleBrowserEvent(ev any) {
	switch ev := ev.(type) {
	case *target.EventTargetCreated:
		h.onTargetCreated(ev.TargetInfo)
	case *target.EventTargetInfoChanged:
		h.onTargetInfoChanged(ev.TargetInfo)
	case *browser.EventDownloadWillBegin:
		h.onDownloadWillBegin(ev)
	case *browser.EventDownloadProgress:
		h.onDownloadProgress(ev)
	}
}

func (h *Host) onTargetCreated(info *target.Info) {
	if info == nil || info.Type != "page" || info.OpenerID == "" {
		return
	}
	if _, ours := h.surface(info.OpenerID); !ours {
		return
	}

	h.mu.Lock()
	h.popups[info.TargetID] = info.OpenerID
	h.mu.Unlock()

	h.onTargetInfoChanged(info)
}

func (h *Host) onTargetInfoChanged(info *target.Info) {
	if info == nil {
		return
	}

	h.mu.Lock()
	opener, isPopup := h.popups[info.TargetID]
	if isPopup && isBlankURL(info.URL) {
		h.mu.Unlock()
		return
	}
	if isPopup {
		delete(h.popups, info.TargetID)
	}
	h.mu.Unlock()

	if isPopup {
		go h.closeTarget(info.TargetID)
		if s, ok := h.surface(opener); ok {
			s.fireNewWindow(info.URL)
		}
		return
	}

	if s, ok := h.surface(info.TargetID); ok {
		s.observeTitle(info.Title)
	}
}

func (h *Host) closeTarget(id target.ID) {
	if err := target.CloseTarget(id).Do(h.browserExecutor(h.ctx)); err != nil {
		logging.FromContext(h.ctx).Debug().Err(err).Str("target_id", string(id)).Msg("failed to close popup target")
	}
}

func isBlankURL(u string) bool {
	return u == "" || u == "about:blank"
}
