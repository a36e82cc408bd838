package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/logging"
)

// SavePrompt asks for a destination through the FileChooser portal.
type SavePrompt struct {
	conn  *Conn
	title string
}

var _ port.SavePrompt = (*SavePrompt)(nil)

// NewSavePrompt creates a prompt using the given portal connection.
func NewSavePrompt(conn *Conn) *SavePrompt {
	return &SavePrompt{conn: conn, title: "Save File"}
}

// AskSavePath opens the save dialog prefilled with suggestedPath.
func (p *SavePrompt) AskSavePath(ctx context.Context, suggestedPath string) (string, error) {
	log := logging.FromContext(ctx)

	dir, name := filepath.Split(suggestedPath)
	resp, err := p.conn.request(ctx, fileChooserIface+".SaveFile", func(token string) []any {
		options := map[string]dbus.Variant{
			"handle_token": dbus.MakeVariant(token),
			"current_name": dbus.MakeVariant(name),
		}
		if dir != "" {
			options["current_folder"] = dbus.MakeVariant(nulTerminated(dir))
		}
		return []any{"", p.title, options}
	})
	if err != nil {
		return "", err
	}

	path, err := savePathFromResponse(resp)
	if errors.Is(err, errCancelled) {
		log.Debug().Msg("portal: save dialog dismissed")
		return "", port.ErrPromptDeclined
	}
	return path, err
}

func savePathFromResponse(resp response) (string, error) {
	switch resp.code {
	case responseSuccess:
	case responseCancelled:
		return "", errCancelled
	default:
		return "", fmt.Errorf("file chooser failed with response %d", resp.code)
	}

	v, ok := resp.results["uris"]
	if !ok {
		return "", errCancelled
	}
	uris, ok := v.Value().([]string)
	if !ok || len(uris) == 0 {
		return "", errCancelled
	}
	return pathFromFileURI(uris[0])
}

func pathFromFileURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse chosen uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("chosen uri %q is not a local file", raw)
	}
	return u.Path, nil
}

// Portal byte-array paths carry a trailing NUL.
func nulTerminated(s string) []byte {
	return append([]byte(s), 0)
}

// AutoAccept saves every download to the suggested path without asking.
type AutoAccept struct{}

var _ port.SavePrompt = AutoAccept{}

func (AutoAccept) AskSavePath(_ context.Context, suggestedPath string) (string, error) {
	return suggestedPath, nil
}
