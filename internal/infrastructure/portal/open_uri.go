package portal

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// OpenURI asks the portal to open uri with the default handler.
// When ask is true the portal lets the user pick the application.
func (c *Conn) OpenURI(ctx context.Context, uri string, ask bool) error {
	resp, err := c.request(ctx, openURIIface+".OpenURI", func(token string) []any {
		return []any{"", uri, map[string]dbus.Variant{
			"handle_token": dbus.MakeVariant(token),
			"ask":          dbus.MakeVariant(ask),
		}}
	})
	if err != nil {
		return err
	}
	if resp.code != responseSuccess {
		return fmt.Errorf("open uri %s: portal response %d", uri, resp.code)
	}
	return nil
}

// ShowItems reveals uris in the file manager via org.freedesktop.FileManager1.
func (c *Conn) ShowItems(ctx context.Context, uris []string) error {
	if !c.Available() {
		return ErrUnavailable
	}
	obj := c.conn.Object("org.freedesktop.FileManager1", "/org/freedesktop/FileManager1")
	if err := obj.CallWithContext(ctx, "org.freedesktop.FileManager1.ShowItems", 0, uris, "").Err; err != nil {
		return fmt.Errorf("file manager show items: %w", err)
	}
	return nil
}
