// Package sink defines the presentation contract the dispatcher drives and
// the implementations that fan it out to clients, the journal and the log.
package sink

import (
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Sink receives fire-and-forget presentation signals.
type Sink interface {
	LogEntry(kind domain.SourceKind, text, name string)
	SetStatus(text string)
	SetHighlight(assetID string, group domain.AvatarGroup, active bool)
	SetSelectionLabel(text string)
	FocusAsset(assetID string)
	Speak(text string)
	// AssetMoved carries an asset's new authoritative location.
	AssetMoved(asset domain.Asset)
}

// Multi fans every signal out to each sink in order.
type Multi []Sink

func (m Multi) LogEntry(kind domain.SourceKind, text, name string) {
	for _, s := range m {
		s.LogEntry(kind, text, name)
	}
}

func (m Multi) SetStatus(text string) {
	for _, s := range m {
		s.SetStatus(text)
	}
}

func (m Multi) SetHighlight(assetID string, group domain.AvatarGroup, active bool) {
	for _, s := range m {
		s.SetHighlight(assetID, group, active)
	}
}

func (m Multi) SetSelectionLabel(text string) {
	for _, s := range m {
		s.SetSelectionLabel(text)
	}
}

func (m Multi) FocusAsset(assetID string) {
	for _, s := range m {
		s.FocusAsset(assetID)
	}
}

func (m Multi) Speak(text string) {
	for _, s := range m {
		s.Speak(text)
	}
}

func (m Multi) AssetMoved(asset domain.Asset) {
	for _, s := range m {
		s.AssetMoved(asset)
	}
}

// Discard drops every signal.
type Discard struct{}

func (Discard) LogEntry(domain.SourceKind, string, string)    {}
func (Discard) SetStatus(string)                              {}
func (Discard) SetHighlight(string, domain.AvatarGroup, bool) {}
func (Discard) SetSelectionLabel(string)                      {}
func (Discard) FocusAsset(string)                             {}
func (Discard) Speak(string)                                  {}
func (Discard) AssetMoved(domain.Asset)                       {}
