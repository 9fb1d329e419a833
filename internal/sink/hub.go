package sink

import (
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Broadcaster pushes a JSON message to every connected client.
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}

// NewHubSink returns a sink that broadcasts every signal to connected clients.
func NewHubSink(b Broadcaster, dispatchID string, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return messageSink{
		dispatchID: dispatchID,
		emit: func(eventType domain.EventType, msg any) {
			if err := b.BroadcastJSON(msg); err != nil {
				logger.Warn("Failed to broadcast event",
					zap.String("dispatch_id", dispatchID),
					zap.String("type", string(eventType)),
					zap.Error(err))
			}
		},
	}
}
