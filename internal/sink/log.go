package sink

import (
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// LogSink writes every signal to a structured logger at debug level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink bound to a dispatch.
func NewLogSink(logger *zap.Logger, dispatchID string) *LogSink {
	return &LogSink{logger: logger.With(zap.String("dispatch_id", dispatchID))}
}

func (s *LogSink) LogEntry(kind domain.SourceKind, text, name string) {
	fields := []zap.Field{zap.String("kind", string(kind)), zap.String("text", text)}
	if name != "" {
		fields = append(fields, zap.String("name", name))
	}
	if kind == domain.SourceError {
		s.logger.Info("Console error", fields...)
		return
	}
	s.logger.Debug("Console log", fields...)
}

func (s *LogSink) SetStatus(text string) {
	s.logger.Debug("Status", zap.String("text", text))
}

func (s *LogSink) SetHighlight(assetID string, group domain.AvatarGroup, active bool) {
	s.logger.Debug("Highlight",
		zap.String("asset_id", assetID),
		zap.String("group", string(group)),
		zap.Bool("active", active))
}

func (s *LogSink) SetSelectionLabel(text string) {
	s.logger.Debug("Selection label", zap.String("text", text))
}

func (s *LogSink) FocusAsset(assetID string) {
	s.logger.Debug("Focus", zap.String("asset_id", assetID))
}

func (s *LogSink) Speak(text string) {
	s.logger.Debug("Speak", zap.String("text", text))
}

func (s *LogSink) AssetMoved(asset domain.Asset) {
	s.logger.Debug("Asset moved",
		zap.String("asset_id", asset.ID),
		zap.Float64("lat", asset.Location.Lat),
		zap.Float64("lon", asset.Location.Lon),
		zap.String("grid", asset.Location.Grid))
}
