package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/dispatch"
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

// ErrEmptyCommand is returned for blank utterances.
var ErrEmptyCommand = errors.New("command text is required")

// ProcessCommand runs one utterance start to finish: journal row, user log,
// resolution and dispatch. Response units may still be pending on return.
func (s *Service) ProcessCommand(ctx context.Context, text string) (*dispatch.Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCommand
	}

	dispatchID := "dsp_" + uuid.New().String()[:8]
	record := &domain.Dispatch{
		DispatchID: dispatchID,
		Text:       text,
		Outcome:    domain.OutcomePending,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateDispatch(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create dispatch: %w", err)
	}

	out := s.sinkFor(dispatchID)
	out.LogEntry(domain.SourceUser, `"`+text+`"`, "")
	out.SetStatus(StatusProcessing)

	res := s.resolver.Resolve(text)
	outcome := s.dispatcher.Dispatch(ctx, dispatchID, res, out)

	if err := s.store.UpdateDispatchOutcome(ctx, dispatchID, outcome.Kind, outcome.Keyword(), outcome.AssetID(), outcome.TargetIDs()); err != nil {
		s.logger.Error("Failed to record outcome", zap.String("dispatch_id", dispatchID), zap.Error(err))
	}
	if s.metrics != nil {
		mutates := outcome.Intent != nil && outcome.Intent.Mutates
		s.metrics.ObserveOutcome(outcome.Kind, outcome.Keyword(), len(outcome.Targets), mutates)
	}
	s.broadcastOutcome(outcome)
	out.SetStatus(StatusStandby)

	s.logger.Info("Command processed",
		zap.String("dispatch_id", dispatchID),
		zap.String("outcome", string(outcome.Kind)),
		zap.String("intent", outcome.Keyword()),
		zap.String("asset_id", outcome.AssetID()))
	return &outcome, nil
}

func (s *Service) broadcastOutcome(o dispatch.Outcome) {
	if s.hub == nil {
		return
	}
	msg := OutcomeMessage(o)
	if err := s.hub.BroadcastJSON(msg); err != nil {
		s.logger.Warn("Failed to broadcast outcome", zap.String("dispatch_id", o.DispatchID), zap.Error(err))
	}
}

// OutcomeMessage encodes an outcome for clients.
func OutcomeMessage(o dispatch.Outcome) protocol.OutcomeMessage {
	base := protocol.NewBase(protocol.TypeOutcome)
	base.DispatchID = o.DispatchID
	return protocol.OutcomeMessage{
		BaseMessage: base,
		Outcome:     o.Kind,
		Intent:      o.Keyword(),
		AssetID:     o.AssetID(),
		Targets:     o.TargetIDs(),
	}
}
