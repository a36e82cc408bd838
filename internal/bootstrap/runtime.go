package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/application/usecase"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/infrastructure/bridge"
	"github.com/bnema/multitab/internal/infrastructure/chromium"
	"github.com/bnema/multitab/internal/infrastructure/config"
	"github.com/bnema/multitab/internal/infrastructure/desktop"
	"github.com/bnema/multitab/internal/infrastructure/filesystem"
	"github.com/bnema/multitab/internal/infrastructure/portal"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/coordinator"
	"github.com/bnema/multitab/internal/ui/eventbus"
	"github.com/bnema/multitab/internal/ui/mainloop"
)

// ErrBrowserExited is returned by Run when the browser process goes away.
var ErrBrowserExited = errors.New("browser process exited")

// Runtime is a fully wired shell.
type Runtime struct {
	cfg *config.Config

	Loop   *mainloop.Loop
	Bus    *eventbus.Bus
	Shell  *coordinator.Shell
	Bridge *bridge.Server

	host    *chromium.Host
	window  *chromium.Window
	portal  *portal.Conn
	content *coordinator.ContentCoordinator
}

// Build starts the browser and wires every component. Nothing runs until Run.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	timer := NewStartupTimer()
	log := logging.FromContext(ctx)

	script, err := readBootstrapScript(cfg.Browser.BootstrapScript)
	if err != nil {
		return nil, err
	}

	loop := mainloop.NewLoop(0)
	bus := eventbus.New(cfg.Events.Buffer)
	bus.Subscribe(eventbus.LogSink{})
	timer.Mark("core")

	host, err := chromium.NewHost(logging.WithComponent(ctx, "chromium"), chromium.Options{
		ExecPath:    cfg.Browser.ExecPath,
		Headless:    cfg.Browser.Headless,
		UserDataDir: cfg.Browser.UserDataDir,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	window := host.Window(pollInterval(cfg))
	timer.Mark("browser")

	conn := portal.Connect(ctx)
	prompt := selectPrompt(ctx, cfg, conn, portal.NewSavePrompt(conn))
	timer.Mark("portal")

	settings := SettingsFromConfig(cfg)
	tabs := entity.NewTabList[port.Surface]()

	content := coordinator.NewContentCoordinator(ctx, coordinator.ContentCoordinatorConfig{
		Tabs:         tabs,
		Window:       window,
		Events:       bus,
		Post:         loop.Post,
		TabBarHeight: settings.TabBarHeight,
	})
	tabCoord := coordinator.NewTabCoordinator(ctx, coordinator.TabCoordinatorConfig{
		Tabs:            tabs,
		Factory:         host,
		Content:         content,
		Events:          bus,
		Post:            loop.Post,
		Resolver:        settings.Resolver,
		Homepage:        cfg.Browser.Homepage,
		BootstrapScript: script,
	})
	downloads := coordinator.NewDownloadCoordinator(ctx, coordinator.DownloadCoordinatorConfig{
		Prompt:      prompt,
		Desktop:     desktop.New(conn),
		Prepare:     usecase.NewPrepareDownloadUseCase(filesystem.New()),
		Events:      bus,
		Post:        loop.Post,
		DownloadDir: settings.DownloadDir,
	})
	downloads.Attach(logging.WithComponent(ctx, "downloads"), host)
	content.WireWindow(ctx)

	shell := coordinator.NewShell(loop, tabCoord, content, downloads)

	hub := bridge.NewHub()
	bus.Subscribe(hub)
	server := bridge.NewServer(ctx, shell, hub)
	timer.Mark("wiring")
	timer.Log(ctx)

	log.Info().
		Bool("bridge", cfg.Bridge.Enabled).
		Bool("ask_destination", cfg.Downloads.AskDestination).
		Msg("shell ready")

	return &Runtime{
		cfg:     cfg,
		Loop:    loop,
		Bus:     bus,
		Shell:   shell,
		Bridge:  server,
		host:    host,
		window:  window,
		portal:  conn,
		content: content,
	}, nil
}

// Run supervises the loop, the bus, the window watcher and the bridge, and
// opens the initial tabs. It returns when ctx is done or a part fails.
func (r *Runtime) Run(ctx context.Context, urls []string) error {
	log := logging.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return ignoreCancel(r.Loop.Run(gctx)) })
	g.Go(func() error { return ignoreCancel(r.Bus.Run(gctx)) })
	g.Go(func() error { return r.window.Run(gctx) })
	g.Go(func() error {
		select {
		case <-r.host.Done():
			if gctx.Err() == nil {
				return ErrBrowserExited
			}
		case <-gctx.Done():
		}
		return nil
	})
	if r.cfg.Bridge.Enabled {
		g.Go(func() error { return r.Bridge.ListenAndServe(gctx, r.cfg.Bridge.Listen) })
	}
	g.Go(func() error {
		r.openInitialTabs(gctx, urls)
		return nil
	})

	err := g.Wait()
	if err != nil {
		log.Error().Err(err).Msg("shell stopped")
	}
	return err
}

func (r *Runtime) openInitialTabs(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		urls = []string{""}
	}
	for _, u := range urls {
		if ctx.Err() != nil {
			return
		}
		if id := r.Shell.CreateTab(ctx, u); id == "" {
			logging.FromContext(ctx).Warn().Str("url", u).Msg("initial tab not opened")
		}
	}
}

// Apply pushes a reloaded configuration into the running shell.
func (r *Runtime) Apply(ctx context.Context, cfg *config.Config) {
	r.Shell.Apply(ctx, SettingsFromConfig(cfg))
}

// Close releases the browser and the bus connection.
func (r *Runtime) Close() {
	r.content.Close()
	r.Bus.Close()
	r.Loop.Stop()
	r.host.Close()
	_ = r.portal.Close()
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
