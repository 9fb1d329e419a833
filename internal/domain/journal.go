package domain

import (
	"encoding/json"
	"time"
)

// Dispatch is the journal record of one processed utterance.
type Dispatch struct {
	DispatchID string      `json:"dispatch_id"`
	Text       string      `json:"text"`
	Intent     string      `json:"intent,omitempty"`
	AssetID    string      `json:"asset_id,omitempty"`
	Outcome    OutcomeKind `json:"outcome"`
	Targets    []string    `json:"targets,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
}

// Event represents a journaled sink event for replay.
type Event struct {
	EventID    string          `json:"event_id"`
	DispatchID string          `json:"dispatch_id"`
	Ts         int64           `json:"ts"` // Unix milliseconds
	Type       EventType       `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}
