package messaging

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Client is a remote connection to the server's NATS, used by mirror viewers.
type Client struct {
	conn *nats.Conn
}

// Dial connects to url, retrying in the background if the server goes away.
func Dial(url string, name string) (*Client, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Subscribe calls handler for every message on subject. The returned func unsubscribes.
func (c *Client) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	return subscribe(c.conn, subject, handler)
}

func (c *Client) Close() {
	c.conn.Close()
}
