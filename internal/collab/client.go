package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	// sendBuffer bounds the per-client outbound queue. Slow consumers drop
	// messages rather than stalling the room; a dropped doc-level message is
	// recovered by the next doc.sync on reconnect.
	sendBuffer = 256

	writeTimeout    = 10 * time.Second
	pingInterval    = 30 * time.Second
	maxInboundBytes = 64 * 1024
)

// Client is one websocket connection to a project room. Reading and writing
// run on separate goroutines; the outbound channel is the only hand-off
// between them.
type Client struct {
	UserID      string
	DisplayName string
	ProjectID   string
	ClientID    string

	hub  *Hub
	conn *websocket.Conn
	out  chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, projectID, clientID string) *Client {
	return &Client{
		UserID:      userID,
		DisplayName: displayName,
		ProjectID:   projectID,
		ClientID:    clientID,
		hub:         hub,
		conn:        conn,
		out:         make(chan []byte, sendBuffer),
	}
}

// ReadPump consumes inbound frames until the connection drops, stamping each
// message with the client's identity before handing it to the hub. It owns
// unregistration: when it returns, the client leaves the room.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxInboundBytes)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("websocket read ended", "error", err, "user", c.UserID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("undecodable message", "error", err, "user", c.UserID)
			continue
		}

		// Identity comes from the connection, never from the payload.
		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.ProjectID = c.ProjectID

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the outbound queue and keeps the connection alive with
// periodic pings. It exits when the queue closes (unregistration) or the
// context ends.
func (c *Client) WritePump(ctx context.Context) {
	pings := time.NewTicker(pingInterval)
	defer func() {
		pings.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.out:
			if !ok {
				return
			}
			if err := c.writeWithTimeout(ctx, data); err != nil {
				slog.Debug("websocket write ended", "error", err, "user", c.UserID)
				return
			}

		case <-pings.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) writeWithTimeout(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// Send queues a message for delivery, dropping it when the client's buffer
// is full.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal outbound message", "error", err)
		return
	}

	select {
	case c.out <- data:
	default:
		slog.Warn("outbound buffer full, dropping message", "user", c.UserID, "type", msg.Type)
	}
}
