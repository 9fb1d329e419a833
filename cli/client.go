package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

// Client represents a WebSocket client.
type Client struct {
	conn *websocket.Conn
	seq  int
}

// NewClient creates a new client and connects to the server.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *Client) nextRequestID() string {
	c.seq++
	return fmt.Sprintf("req_%d", c.seq)
}

// SendHello sends a hello message and waits for hello_ack.
func (c *Client) SendHello() (*protocol.HelloAckMessage, error) {
	msg := protocol.HelloMessage{
		BaseMessage: protocol.NewBase(protocol.TypeHello),
		ClientMeta: map[string]string{
			"client": "fleetconsole-cli",
		},
	}
	msg.RequestID = c.nextRequestID()

	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("write hello: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read hello_ack: %w", err)
	}

	var base protocol.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("unmarshal hello_ack: %w", err)
	}

	if base.Type == protocol.TypeError {
		var errMsg protocol.ErrorMessage
		_ = json.Unmarshal(data, &errMsg)
		return nil, fmt.Errorf("hello failed: %s - %s", errMsg.Code, errMsg.Message)
	}
	if base.Type != protocol.TypeHelloAck {
		return nil, fmt.Errorf("expected hello_ack, got: %s", base.Type)
	}

	var ack protocol.HelloAckMessage
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, fmt.Errorf("unmarshal hello_ack: %w", err)
	}
	return &ack, nil
}

// SendCommand sends one utterance.
func (c *Client) SendCommand(text string) error {
	msg := protocol.CommandMessage{
		BaseMessage: protocol.NewBase(protocol.TypeCommand),
		Text:        text,
	}
	msg.RequestID = c.nextRequestID()
	return c.conn.WriteJSON(msg)
}

// ReadMessages delivers raw server messages to fn until the connection
// closes, the deadline passes, or fn returns false.
func (c *Client) ReadMessages(deadline time.Time, fn func(data []byte) bool) error {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if !fn(data) {
			return nil
		}
	}
}
