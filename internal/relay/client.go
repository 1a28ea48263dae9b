package relay

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps a single websocket connection. A client starts anonymous and
// becomes a participant only after a user-join event; anonymous clients
// still receive broadcasts but their own messaging events are silently
// dropped.
type Client struct {
	id   string
	conn *websocket.Conn

	// gorilla/websocket allows one concurrent writer per connection;
	// broadcasts arrive from other connections' read loops.
	writeMu sync.Mutex
}

// send marshals the payload into the event envelope and writes it. A failed
// write is not reported to the peer; the relay is fire-and-forget.
func (c *Client) send(event string, payload interface{}) error {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = b
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(Event{Event: event, Data: data})
}
