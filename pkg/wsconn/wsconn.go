// Package wsconn wraps a websocket connection with a write lock. Gorilla
// connections support only one concurrent writer; room broadcasts come from
// the handler goroutines of every other member, so each outbound write takes
// the connection's lock.
package wsconn

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteJSON writes v as a single JSON message. Safe for concurrent use.
func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteJSON(v)
}

// ReadJSON reads the next JSON message. Reads are not locked: a connection
// has exactly one reader, its read loop.
func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
