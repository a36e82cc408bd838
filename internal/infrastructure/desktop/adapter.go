// Package desktop opens finished downloads with the user's desktop environment (XDG).
package desktop

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// Opener is the portal subset the adapter prefers over spawning processes.
type Opener interface {
	Available() bool
	OpenURI(ctx context.Context, uri string, ask bool) error
	ShowItems(ctx context.Context, uris []string) error
}

// runner starts a detached helper process.
type runner func(ctx context.Context, name string, args ...string) error

// Adapter implements port.Desktop with the desktop portal, falling back to xdg-open.
type Adapter struct {
	portal     Opener
	xdgOpen    string
	runCommand runner
}

var _ port.Desktop = (*Adapter)(nil)

// New creates a desktop adapter. portal may be nil.
func New(portal Opener) *Adapter {
	a := &Adapter{portal: portal, runCommand: startDetached}
	if path, err := exec.LookPath("xdg-open"); err == nil {
		a.xdgOpen = path
	}
	return a
}

func startDetached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenPath opens the file with its default application.
func (a *Adapter) OpenPath(ctx context.Context, path string) error {
	log := logging.FromContext(ctx)

	if a.portalReady() {
		err := a.portal.OpenURI(ctx, fileURI(path), false)
		if err == nil {
			return nil
		}
		log.Debug().Err(err).Str("path", path).Msg("portal open failed, falling back to xdg-open")
	}
	return a.xdg(ctx, path)
}

// ShowItemInFolder reveals the file in the file manager. Without a file
// manager service the containing directory is opened instead.
func (a *Adapter) ShowItemInFolder(ctx context.Context, path string) error {
	log := logging.FromContext(ctx)

	if a.portalReady() {
		err := a.portal.ShowItems(ctx, []string{fileURI(path)})
		if err == nil {
			return nil
		}
		log.Debug().Err(err).Str("path", path).Msg("file manager unavailable, opening folder")
	}
	return a.xdg(ctx, filepath.Dir(path))
}

func (a *Adapter) portalReady() bool {
	return a.portal != nil && a.portal.Available()
}

func (a *Adapter) xdg(ctx context.Context, target string) error {
	if a.xdgOpen == "" {
		return fmt.Errorf("open %s: xdg-open not found", target)
	}
	// Detached from the caller so closing the shell does not kill the viewer.
	if err := a.runCommand(context.WithoutCancel(ctx), a.xdgOpen, target); err != nil {
		return fmt.Errorf("xdg-open %s: %w", target, err)
	}
	return nil
}

func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}
