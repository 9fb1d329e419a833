package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// EventWriter persists journal events.
type EventWriter interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
}

// journalWriteTimeout bounds a single event insert.
const journalWriteTimeout = 5 * time.Second

// NewJournalSink returns a sink that records every signal as an event of
// dispatchID. Payloads are the same messages clients receive.
func NewJournalSink(w EventWriter, dispatchID string, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return messageSink{
		dispatchID: dispatchID,
		emit: func(eventType domain.EventType, msg any) {
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Error("Failed to encode event", zap.String("dispatch_id", dispatchID), zap.Error(err))
				return
			}
			event := &domain.Event{
				EventID:    "evt_" + uuid.New().String()[:8],
				DispatchID: dispatchID,
				Ts:         time.Now().UnixMilli(),
				Type:       eventType,
				Payload:    payload,
			}
			// Units outlive the request that dispatched them.
			ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
			defer cancel()
			if err := w.CreateEvent(ctx, event); err != nil {
				logger.Error("Failed to journal event",
					zap.String("dispatch_id", dispatchID),
					zap.String("type", string(eventType)),
					zap.Error(err))
			}
		},
	}
}
