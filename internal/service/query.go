package service

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/protocol"
)

// ListIntents returns the recognized commands in precedence order.
func (s *Service) ListIntents() []protocol.IntentInfo {
	intents := s.intents.All()
	out := make([]protocol.IntentInfo, len(intents))
	for i, intent := range intents {
		out[i] = protocol.IntentInfo{
			Keyword:    intent.Keyword,
			Capability: string(intent.Capability),
			Example:    intent.Example,
		}
	}
	return out
}

// ListAssets returns snapshots of every asset in registry order.
func (s *Service) ListAssets() []domain.Asset {
	return s.fleet.All()
}

// GetAsset returns one asset snapshot, or nil if unknown.
func (s *Service) GetAsset(assetID string) *domain.Asset {
	a, ok := s.fleet.ByID(assetID)
	if !ok {
		return nil
	}
	return &a
}

// AssetsGeoJSON returns the map layer.
func (s *Service) AssetsGeoJSON() *geojson.FeatureCollection {
	return s.fleet.FeatureCollection()
}

// ListDispatches returns recent dispatches, newest first.
func (s *Service) ListDispatches(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	return s.store.ListDispatches(ctx, limit)
}

// GetDispatch returns a dispatch, or nil if unknown.
func (s *Service) GetDispatch(ctx context.Context, dispatchID string) (*domain.Dispatch, error) {
	return s.store.GetDispatch(ctx, dispatchID)
}

// GetDispatchEvents returns the journaled events of a dispatch.
func (s *Service) GetDispatchEvents(ctx context.Context, dispatchID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	return s.store.GetEvents(ctx, dispatchID, afterTs, types, limit)
}
