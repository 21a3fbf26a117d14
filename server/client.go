package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendBufferSize = 256
)

// ClientMessage is the flat inbound envelope. Fields beyond message_type
// are optional and endpoint-specific.
type ClientMessage struct {
	MessageType    string `json:"message_type"`
	Number         string `json:"number,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
	Input          string `json:"input,omitempty"`
	TournamentName string `json:"tournament_name,omitempty"`
}

// Client is one websocket connection. Each endpoint wires its own message
// and disconnect behavior before starting the pumps.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	identity Identity

	onMessage func(ClientMessage)
	onClose   func()
}

func newClient(conn *websocket.Conn, identity Identity, log *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		log:      log,
		identity: identity,
	}
}

// run starts both pumps. It returns immediately; onClose fires once the
// read pump exits.
func (c *Client) run() {
	go c.writePump()
	go c.readPump()
}

// Deliver queues a payload for the client, dropping it if the send buffer
// is full. Broadcast delivery never blocks the sender.
func (c *Client) Deliver(payload []byte) {
	select {
	case c.send <- payload:
	default:
		c.log.Warn("send buffer full, dropping frame", "user", c.identity.UserID)
	}
}

// DeliverJSON marshals and queues a message for the client.
func (c *Client) DeliverJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.log.Error("marshal outbound message", "error", err)
		return
	}
	c.Deliver(payload)
}

// readPump handles incoming messages from the client.
func (c *Client) readPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose()
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("websocket read error", "error", err)
			}
			break
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg ClientMessage) {
	// Recover so a malformed message never kills the connection
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("panic in message handler", "type", msg.MessageType, "panic", r)
		}
	}()
	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

// writePump sends queued payloads to the client and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
