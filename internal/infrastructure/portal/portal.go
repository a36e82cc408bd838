// Package portal talks to the XDG Desktop Portal over the D-Bus session bus.
// It works on Wayland and X11 with any compositor that ships a portal backend.
package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/bnema/multitab/internal/logging"
)

const (
	portalDest   = "org.freedesktop.portal.Desktop"
	portalPath   = "/org/freedesktop/portal/desktop"
	requestIface = "org.freedesktop.portal.Request"

	fileChooserIface = "org.freedesktop.portal.FileChooser"
	openURIIface     = "org.freedesktop.portal.OpenURI"
)

// Portal response codes.
const (
	responseSuccess   uint32 = 0
	responseCancelled uint32 = 1
)

// ErrUnavailable is returned when no session bus or portal is reachable.
var ErrUnavailable = errors.New("desktop portal unavailable")

// errCancelled is the portal's "user cancelled" response.
var errCancelled = errors.New("portal request cancelled")

// Conn is a session bus connection to the desktop portal.
type Conn struct {
	conn *dbus.Conn
}

// Connect opens the session bus. A missing bus is not fatal: the returned
// Conn reports ErrUnavailable on every call.
func Connect(ctx context.Context) *Conn {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("portal: cannot connect to D-Bus session bus")
		return &Conn{}
	}
	return &Conn{conn: conn}
}

// Available reports whether the session bus is connected.
func (c *Conn) Available() bool {
	return c != nil && c.conn != nil
}

// Close releases the bus connection.
func (c *Conn) Close() error {
	if !c.Available() {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// response is the payload of org.freedesktop.portal.Request.Response.
type response struct {
	code    uint32
	results map[string]dbus.Variant
}

// request calls a portal method that answers through a Request object and
// waits for its Response signal. The match is installed before the call
// using the predictable handle path so a fast response is not lost.
func (c *Conn) request(ctx context.Context, method string, args func(token string) []any) (response, error) {
	if !c.Available() {
		return response{}, ErrUnavailable
	}
	log := logging.FromContext(ctx)

	token := handleToken()
	handle := requestPath(c.conn.Names()[0], token)

	matchRule := fmt.Sprintf(
		"type='signal',interface='%s',member='Response',path='%s'",
		requestIface, handle,
	)
	if err := c.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err; err != nil {
		return response{}, fmt.Errorf("portal add match: %w", err)
	}

	signals := make(chan *dbus.Signal, 4)
	c.conn.Signal(signals)
	defer func() {
		c.conn.RemoveSignal(signals)
		_ = c.conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, matchRule).Err
	}()

	var got dbus.ObjectPath
	obj := c.conn.Object(portalDest, portalPath)
	if err := obj.CallWithContext(ctx, method, 0, args(token)...).Store(&got); err != nil {
		return response{}, fmt.Errorf("portal %s: %w", method, err)
	}
	if got != handle {
		// Older portals ignore handle_token.
		log.Debug().Str("expected", string(handle)).Str("handle", string(got)).Msg("portal: unexpected request handle")
		handle = got
	}

	for {
		select {
		case sig := <-signals:
			if sig == nil {
				return response{}, ErrUnavailable
			}
			if sig.Path != handle || sig.Name != requestIface+".Response" {
				continue
			}
			return decodeResponse(sig.Body)
		case <-ctx.Done():
			_ = c.conn.Object(portalDest, handle).Call(requestIface+".Close", 0).Err
			return response{}, ctx.Err()
		}
	}
}

func decodeResponse(body []any) (response, error) {
	if len(body) < 2 {
		return response{}, fmt.Errorf("portal response: expected 2 values, got %d", len(body))
	}
	code, ok := body[0].(uint32)
	if !ok {
		return response{}, fmt.Errorf("portal response: code is %T", body[0])
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return response{}, fmt.Errorf("portal response: results are %T", body[1])
	}
	return response{code: code, results: results}, nil
}

func handleToken() string {
	return "multitab_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// requestPath predicts the Request object path for a sender and token.
func requestPath(sender, token string) dbus.ObjectPath {
	s := strings.TrimPrefix(sender, ":")
	s = strings.ReplaceAll(s, ".", "_")
	return dbus.ObjectPath(portalPath + "/request/" + s + "/" + token)
}
