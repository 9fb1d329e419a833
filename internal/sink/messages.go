package sink

import (
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

// emitFunc receives each signal encoded as its wire message.
type emitFunc func(eventType domain.EventType, msg any)

// messageSink encodes signals as protocol messages tagged with a dispatch ID.
type messageSink struct {
	dispatchID string
	emit       emitFunc
}

func (s messageSink) base(msgType string) protocol.BaseMessage {
	b := protocol.NewBase(msgType)
	b.DispatchID = s.dispatchID
	return b
}

func (s messageSink) LogEntry(kind domain.SourceKind, text, name string) {
	s.emit(domain.EventTypeLog, protocol.LogMessage{
		BaseMessage: s.base(protocol.TypeLog),
		Kind:        kind,
		Text:        text,
		Name:        name,
	})
}

func (s messageSink) SetStatus(text string) {
	s.emit(domain.EventTypeStatus, protocol.StatusMessage{
		BaseMessage: s.base(protocol.TypeStatus),
		Text:        text,
	})
}

func (s messageSink) SetHighlight(assetID string, group domain.AvatarGroup, active bool) {
	s.emit(domain.EventTypeHighlight, protocol.HighlightMessage{
		BaseMessage: s.base(protocol.TypeHighlight),
		AssetID:     assetID,
		Group:       group,
		Active:      active,
	})
}

func (s messageSink) SetSelectionLabel(text string) {
	s.emit(domain.EventTypeSelection, protocol.SelectionMessage{
		BaseMessage: s.base(protocol.TypeSelection),
		Text:        text,
	})
}

func (s messageSink) FocusAsset(assetID string) {
	s.emit(domain.EventTypeFocus, protocol.FocusMessage{
		BaseMessage: s.base(protocol.TypeFocus),
		AssetID:     assetID,
	})
}

func (s messageSink) Speak(text string) {
	s.emit(domain.EventTypeSpeak, protocol.SpeakMessage{
		BaseMessage: s.base(protocol.TypeSpeak),
		Text:        text,
	})
}

func (s messageSink) AssetMoved(asset domain.Asset) {
	s.emit(domain.EventTypeAssetMoved, protocol.AssetMovedMessage{
		BaseMessage: s.base(protocol.TypeAssetMoved),
		Asset:       asset.Clone(),
	})
}
