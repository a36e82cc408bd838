package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "pretty")
	return logging.WithContext(context.Background(), logger)
}

// queueLoop stands in for mainloop.Loop: posted tasks wait until drain.
type queueLoop struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queueLoop) post(fn func()) bool {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
	return true
}

func (q *queueLoop) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// drain runs queued tasks, including ones queued while draining.
func (q *queueLoop) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		fn()
	}
}

// waitAndDrain waits for work posted from another goroutine and runs it.
func (q *queueLoop) waitAndDrain(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return q.pending() > 0 }, 2*time.Second, 5*time.Millisecond)
	q.drain()
}

type published struct {
	channel string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(channel string, payload any) {
	p.mu.Lock()
	p.events = append(p.events, published{channel: channel, payload: payload})
	p.mu.Unlock()
}

func (p *recordingPublisher) channels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.channel)
	}
	return out
}

func (p *recordingPublisher) on(channel string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []any
	for _, ev := range p.events {
		if ev.channel == channel {
			out = append(out, ev.payload)
		}
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

type fakeSurface struct {
	name      string
	loaded    []string
	back      int
	forward   int
	reloads   int
	bounds    []entity.Rect
	focused   int
	destroyed bool
	canBack   bool
	canFwd    bool
	callbacks *port.SurfaceCallbacks
	loadErr   error
}

func (s *fakeSurface) Destroy() { s.destroyed = true }

func (s *fakeSurface) LoadURL(_ context.Context, u string) error {
	s.loaded = append(s.loaded, u)
	return s.loadErr
}

func (s *fakeSurface) GoBack(context.Context) error {
	s.back++
	return nil
}

func (s *fakeSurface) GoForward(context.Context) error {
	s.forward++
	return nil
}

func (s *fakeSurface) Reload(context.Context) error {
	s.reloads++
	return nil
}

func (s *fakeSurface) CanGoBack() bool    { return s.canBack }
func (s *fakeSurface) CanGoForward() bool { return s.canFwd }

func (s *fakeSurface) SetBounds(_ context.Context, r entity.Rect) error {
	s.bounds = append(s.bounds, r)
	return nil
}

func (s *fakeSurface) Focus(context.Context) error {
	s.focused++
	return nil
}

func (s *fakeSurface) SetCallbacks(cb *port.SurfaceCallbacks) { s.callbacks = cb }

type fakeFactory struct {
	surfaces []*fakeSurface
	err      error
}

func (f *fakeFactory) Create(context.Context, port.SurfaceOptions) (port.Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &fakeSurface{}
	f.surfaces = append(f.surfaces, s)
	return s, nil
}

type fakeWindow struct {
	content   entity.Rect
	attached  port.Surface
	attaches  int
	detaches  int
	callbacks *port.WindowCallbacks
	boundsErr error
}

func (w *fakeWindow) ContentBounds(context.Context) (entity.Rect, error) {
	return w.content, w.boundsErr
}

func (w *fakeWindow) Attach(_ context.Context, s port.Surface) error {
	w.attached = s
	w.attaches++
	return nil
}

func (w *fakeWindow) Detach(_ context.Context, s port.Surface) error {
	if w.attached == s {
		w.attached = nil
	}
	w.detaches++
	return nil
}

func (w *fakeWindow) SetCallbacks(cb *port.WindowCallbacks) { w.callbacks = cb }

type fakeItem struct {
	mu        sync.Mutex
	filename  string
	url       string
	mime      string
	total     int64
	received  int64
	savePath  string
	saveErr   error
	cancelled int
	callbacks *port.DownloadItemCallbacks
}

func (i *fakeItem) SuggestedFilename() string { return i.filename }
func (i *fakeItem) URL() string               { return i.url }
func (i *fakeItem) MimeType() string          { return i.mime }
func (i *fakeItem) TotalBytes() int64         { return i.total }

func (i *fakeItem) ReceivedBytes() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.received
}

func (i *fakeItem) setReceived(n int64) {
	i.mu.Lock()
	i.received = n
	i.mu.Unlock()
}

func (i *fakeItem) SetSavePath(path string) error {
	i.savePath = path
	return i.saveErr
}

func (i *fakeItem) SetCallbacks(cb *port.DownloadItemCallbacks) { i.callbacks = cb }

func (i *fakeItem) Cancel() error {
	i.cancelled++
	return errors.New("not supported")
}

type fakeSession struct {
	handler func(port.DownloadItem)
}

func (s *fakeSession) OnWillDownload(h func(port.DownloadItem)) { s.handler = h }

// fakeClock advances one second per reading.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// harness wires the coordinators on a queueLoop.
type harness struct {
	loop      *queueLoop
	events    *recordingPublisher
	factory   *fakeFactory
	window    *fakeWindow
	tabs      *TabCoordinator
	content   *ContentCoordinator
	downloads *DownloadCoordinator
	session   *fakeSession
	clock     *fakeClock
	nextTab   int
	nextDl    int
}

func newHarness(t *testing.T, prompt port.SavePrompt, desktop port.Desktop) *harness {
	t.Helper()
	ctx := testContext()
	h := &harness{
		loop:    &queueLoop{},
		events:  &recordingPublisher{},
		factory: &fakeFactory{},
		window:  &fakeWindow{content: entity.Rect{Width: 1200, Height: 800}},
		session: &fakeSession{},
		clock:   newFakeClock(),
	}

	list := entity.NewTabList[port.Surface]()
	h.content = NewContentCoordinator(ctx, ContentCoordinatorConfig{
		Tabs:         list,
		Window:       h.window,
		Events:       h.events,
		Post:         h.loop.post,
		TabBarHeight: DefaultTabBarHeight,
	})
	h.content.WireWindow(ctx)
	h.tabs = NewTabCoordinator(ctx, TabCoordinatorConfig{
		Tabs:    list,
		Factory: h.factory,
		Content: h.content,
		Events:  h.events,
		Post:    h.loop.post,
		NewID: func() entity.TabID {
			h.nextTab++
			return entity.TabID(fmt.Sprintf("tab-%d", h.nextTab))
		},
	})
	h.downloads = NewDownloadCoordinator(ctx, DownloadCoordinatorConfig{
		Prompt:      prompt,
		Desktop:     desktop,
		Events:      h.events,
		Post:        h.loop.post,
		DownloadDir: "/home/user/Downloads",
		Now:         h.clock.now,
		NewID: func() entity.DownloadID {
			h.nextDl++
			return entity.DownloadID(fmt.Sprintf("dl-%d", h.nextDl))
		},
	})
	h.downloads.Attach(ctx, h.session)
	return h
}
