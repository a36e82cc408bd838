package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bnema/multitab/internal/application/port"
	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
	"github.com/bnema/multitab/internal/ui/eventbus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 64
)

// Hub fans bus events out to websocket clients. It is a port.EventSink:
// Deliver encodes once and never waits on a slow client. A client whose
// queue is full is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}

	speedMu sync.Mutex
	speeds  map[entity.DownloadID]float64
}

var _ port.EventSink = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		speeds:  make(map[entity.DownloadID]float64),
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Deliver broadcasts one event.
func (h *Hub) Deliver(ctx context.Context, event port.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Channel, err)
	}
	h.trackSpeed(event.Channel, msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			logging.FromContext(ctx).Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("bridge client too slow, disconnecting")
			delete(h.clients, c)
			c.close()
		}
	}
	return nil
}

// trackSpeed keeps the last reported speed per download for /downloads.
func (h *Hub) trackSpeed(channel string, msg []byte) {
	switch channel {
	case eventbus.DownloadUpdated, eventbus.DownloadCompleted, eventbus.DownloadRemoved:
	default:
		return
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		return
	}

	h.speedMu.Lock()
	defer h.speedMu.Unlock()

	if channel == eventbus.DownloadRemoved {
		var id entity.DownloadID
		if json.Unmarshal(env.Data, &id) == nil {
			delete(h.speeds, id)
		}
		return
	}

	var upd struct {
		ID    entity.DownloadID `json:"id"`
		Speed *float64          `json:"speed"`
	}
	if json.Unmarshal(env.Data, &upd) != nil {
		return
	}
	switch {
	case channel == eventbus.DownloadCompleted:
		delete(h.speeds, upd.ID)
	case upd.Speed != nil:
		h.speeds[upd.ID] = *upd.Speed
	}
}

// Speed returns the last reported speed of a download.
func (h *Hub) Speed(id entity.DownloadID) float64 {
	h.speedMu.Lock()
	defer h.speedMu.Unlock()
	return h.speeds[id]
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendSize),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}
