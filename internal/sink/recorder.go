package sink

import (
	"sync"
	"time"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Signal is one recorded sink call.
type Signal struct {
	At      time.Time
	Type    domain.EventType
	Kind    domain.SourceKind
	Text    string
	Name    string
	AssetID string
	Group   domain.AvatarGroup
	Active  bool
	Asset   *domain.Asset
}

// Recorder keeps every signal in call order, stamped by its clock.
type Recorder struct {
	mu      sync.Mutex
	now     func() time.Time
	signals []Signal
}

// NewRecorder creates a recorder. A nil clock uses time.Now.
func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{now: now}
}

func (r *Recorder) add(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.At = r.now()
	r.signals = append(r.signals, s)
}

// Signals returns a copy of everything recorded so far.
func (r *Recorder) Signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Signal, len(r.signals))
	copy(out, r.signals)
	return out
}

// OfType filters recorded signals by type.
func (r *Recorder) OfType(t domain.EventType) []Signal {
	var out []Signal
	for _, s := range r.Signals() {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Reset forgets recorded signals.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = nil
}

func (r *Recorder) LogEntry(kind domain.SourceKind, text, name string) {
	r.add(Signal{Type: domain.EventTypeLog, Kind: kind, Text: text, Name: name})
}

func (r *Recorder) SetStatus(text string) {
	r.add(Signal{Type: domain.EventTypeStatus, Text: text})
}

func (r *Recorder) SetHighlight(assetID string, group domain.AvatarGroup, active bool) {
	r.add(Signal{Type: domain.EventTypeHighlight, AssetID: assetID, Group: group, Active: active})
}

func (r *Recorder) SetSelectionLabel(text string) {
	r.add(Signal{Type: domain.EventTypeSelection, Text: text})
}

func (r *Recorder) FocusAsset(assetID string) {
	r.add(Signal{Type: domain.EventTypeFocus, AssetID: assetID})
}

func (r *Recorder) Speak(text string) {
	r.add(Signal{Type: domain.EventTypeSpeak, Text: text})
}

func (r *Recorder) AssetMoved(asset domain.Asset) {
	a := asset.Clone()
	r.add(Signal{Type: domain.EventTypeAssetMoved, AssetID: asset.ID, Asset: &a})
}
