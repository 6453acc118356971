package bus

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// Client is an out-of-process bus connection, used by CLI tooling to tail
// events and send control messages to a running daemon.
type Client struct {
	conn   *websocket.Conn
	topics Topics
}

// Dial connects to a daemon's bus endpoint. addr is host:port; prefix must
// match the daemon's topic prefix.
func Dial(ctx context.Context, addr, prefix string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/bus"}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bus at %s: %w", u.String(), err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return &Client{conn: conn, topics: NewTopics(prefix)}, nil
}

// Next blocks until the next envelope arrives.
func (c *Client) Next() (*Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read from bus: %w", err)
	}
	return ParseEnvelope(data)
}

// SetPrivacyMode sends a privacy mode toggle to the daemon.
func (c *Client) SetPrivacyMode(enabled bool) error {
	env, err := NewEnvelope(c.topics.Resolve(TopicPrivacyMode), PrivacyModePayload{Enabled: enabled})
	if err != nil {
		return err
	}
	data, err := env.Bytes()
	if err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send privacy toggle: %w", err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
