// Package service wires resolution, dispatch and the journal into the
// operations the transports expose.
package service

import (
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/dispatch"
	"github.com/xiaot623/gogo/fleetconsole/internal/fleet"
	"github.com/xiaot623/gogo/fleetconsole/internal/metrics"
	"github.com/xiaot623/gogo/fleetconsole/internal/repository"
	"github.com/xiaot623/gogo/fleetconsole/internal/resolver"
	"github.com/xiaot623/gogo/fleetconsole/internal/sink"
)

// Status line texts.
const (
	StatusProcessing = "Processing..."
	StatusStandby    = "Standby"
)

type Service struct {
	store      repository.Store
	intents    *capability.Registry
	fleet      *fleet.Registry
	resolver   *resolver.Resolver
	dispatcher *dispatch.Dispatcher
	hub        sink.Broadcaster
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// New creates the console service. hub and m may be nil.
func New(store repository.Store, intents *capability.Registry, fleet *fleet.Registry, dispatcher *dispatch.Dispatcher, hub sink.Broadcaster, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		intents:    intents,
		fleet:      fleet,
		resolver:   resolver.New(intents, fleet),
		dispatcher: dispatcher,
		hub:        hub,
		metrics:    m,
		logger:     logger,
	}
}

// sinkFor builds the per-dispatch fan-out: clients, journal, log.
func (s *Service) sinkFor(dispatchID string) sink.Sink {
	out := sink.Multi{}
	if s.hub != nil {
		out = append(out, sink.NewHubSink(s.hub, dispatchID, s.logger))
	}
	out = append(out,
		sink.NewJournalSink(s.store, dispatchID, s.logger),
		sink.NewLogSink(s.logger, dispatchID),
	)
	return out
}
