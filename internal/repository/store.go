// Package repository persists the console journal: one row per processed
// utterance plus every sink event it produced.
package repository

import (
	"context"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Store defines the interface for journal persistence.
type Store interface {
	// Dispatch operations
	CreateDispatch(ctx context.Context, dispatch *domain.Dispatch) error
	GetDispatch(ctx context.Context, dispatchID string) (*domain.Dispatch, error)
	ListDispatches(ctx context.Context, limit int) ([]domain.Dispatch, error)
	UpdateDispatchOutcome(ctx context.Context, dispatchID string, outcome domain.OutcomeKind, intent, assetID string, targets []string) error

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, dispatchID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}
