// Package protocol defines the WebSocket message protocol between console
// clients and the server.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Message types from client to server
const (
	TypeHello   = "hello"
	TypeCommand = "command"
)

// Message types from server to client
const (
	TypeHelloAck   = "hello_ack"
	TypeLog        = "log"
	TypeStatus     = "status"
	TypeHighlight  = "highlight"
	TypeSelection  = "selection"
	TypeFocus      = "focus"
	TypeSpeak      = "speak"
	TypeAssetMoved = "asset_moved"
	TypeOutcome    = "outcome"
	TypeError      = "error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type       string `json:"type"`
	Ts         int64  `json:"ts"`
	RequestID  string `json:"request_id,omitempty"`
	DispatchID string `json:"dispatch_id,omitempty"`
}

// NewBase stamps a message header with the current time.
func NewBase(msgType string) BaseMessage {
	return BaseMessage{Type: msgType, Ts: time.Now().UnixMilli()}
}

// HelloMessage is sent by client to establish connection.
type HelloMessage struct {
	BaseMessage
	ClientMeta map[string]string `json:"client_meta,omitempty"`
}

// IntentInfo describes one recognized command for help listings.
type IntentInfo struct {
	Keyword    string `json:"keyword"`
	Capability string `json:"capability,omitempty"`
	Example    string `json:"example"`
}

// HelloAckMessage is sent by the server after a successful hello.
type HelloAckMessage struct {
	BaseMessage
	ConnectionID string         `json:"connection_id"`
	Assets       []domain.Asset `json:"assets"`
	Intents      []IntentInfo   `json:"intents"`
}

// CommandMessage carries one utterance from the client.
type CommandMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// LogMessage is a console log entry.
type LogMessage struct {
	BaseMessage
	Kind domain.SourceKind `json:"kind"`
	Text string            `json:"text"`
	Name string            `json:"name,omitempty"`
}

// StatusMessage updates the status line.
type StatusMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// HighlightMessage toggles an asset's card, marker and avatar group.
type HighlightMessage struct {
	BaseMessage
	AssetID string             `json:"asset_id"`
	Group   domain.AvatarGroup `json:"group"`
	Active  bool               `json:"active"`
}

// SelectionMessage sets the selection label. Empty text clears it.
type SelectionMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// FocusMessage centers the map on an asset.
type FocusMessage struct {
	BaseMessage
	AssetID string `json:"asset_id"`
}

// SpeakMessage asks the client to speak text.
type SpeakMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// AssetMovedMessage carries an asset's new authoritative location.
type AssetMovedMessage struct {
	BaseMessage
	Asset domain.Asset `json:"asset"`
}

// OutcomeMessage reports how a command was handled.
type OutcomeMessage struct {
	BaseMessage
	Outcome domain.OutcomeKind `json:"outcome"`
	Intent  string             `json:"intent,omitempty"`
	AssetID string             `json:"asset_id,omitempty"`
	Targets []string           `json:"targets,omitempty"`
}

// ErrorMessage is sent by the server when an error occurs.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeHelloRequired  = "hello_required"
	ErrorCodeEmptyCommand   = "empty_command"
	ErrorCodeInternalError  = "internal_error"
)

// RawMessage is used for parsing incoming messages before type dispatch.
type RawMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"-"`
}
