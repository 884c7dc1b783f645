// internal/events/hub.go
//
// Per-channel websocket fan-out for game updates.
//
// Notes:
//   - Every channel has its own set of clients; Publish only reaches that set.
//   - Each client gets a buffered send queue drained by its own write pump.
//     A client whose queue is full is dropped instead of stalling the game.
//   - Clients never send moves over the socket. The read pump only notices
//     disconnects; moves go through the HTTP API.

package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendQueue  = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 512
)

// Event is one message pushed to every watcher of a channel.
type Event struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Data    any    `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Broker tracks websocket watchers per channel.
type Broker struct {
	mu       sync.Mutex
	channels map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewBroker creates a Broker. allowOrigin decides which browser origins may
// connect; nil accepts any origin.
func NewBroker(allowOrigin func(r *http.Request) bool) *Broker {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Broker{
		channels: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
	}
}

// ServeWS upgrades the request and registers the connection on channel.
// hello, when non-nil, is queued before any later event.
func (b *Broker) ServeWS(w http.ResponseWriter, r *http.Request, channel string, hello *Event) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan Event, sendQueue)}

	b.mu.Lock()
	set, ok := b.channels[channel]
	if !ok {
		set = make(map[*client]struct{})
		b.channels[channel] = set
	}
	set[c] = struct{}{}
	if hello != nil {
		c.send <- *hello
	}
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("watchers", b.Watchers(channel)).Msg("watcher joined")
	go c.writePump()
	c.readPump(func() { b.remove(channel, c) })
}

// Publish queues ev for every watcher of channel.
func (b *Broker) Publish(channel string, ev Event) {
	ev.Channel = channel
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.channels[channel] {
		select {
		case c.send <- ev:
		default:
			log.Warn().Str("channel", channel).Msg("dropping slow watcher")
			b.dropLocked(channel, c)
		}
	}
}

// Watchers counts the open connections on channel.
func (b *Broker) Watchers(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels[channel])
}

// Close disconnects every watcher of channel.
func (b *Broker) Close(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.channels[channel] {
		b.dropLocked(channel, c)
	}
}

func (b *Broker) remove(channel string, c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropLocked(channel, c)
}

// dropLocked closes c's queue once; the write pump then closes the socket.
func (b *Broker) dropLocked(channel string, c *client) {
	set := b.channels[channel]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(b.channels, channel)
	}
}

func (c *client) readPump(done func()) {
	defer func() {
		done()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
