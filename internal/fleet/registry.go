// Package fleet owns every asset record of the console. Lookups hand out
// copies; the only in-place mutation is Relocate.
package fleet

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// ErrAssetNotFound is returned for an unknown asset identifier.
var ErrAssetNotFound = errors.New("asset not found")

// MaxOffset is the largest change Relocate applies to latitude or longitude.
const MaxOffset = 0.001

// Grid references are drawn from GR 482-845 .. GR 484-848.
const (
	gridEastBase  = 482
	gridEastSpan  = 3
	gridNorthBase = 845
	gridNorthSpan = 4
)

// Registry is the ordered set of assets.
type Registry struct {
	mu     sync.RWMutex
	assets []*domain.Asset
	byID   map[string]*domain.Asset
	logger *zap.Logger
}

// New validates assets and builds a registry in the given order.
func New(assets []domain.Asset, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		byID:   make(map[string]*domain.Asset, len(assets)),
		logger: logger,
	}
	owners := make(map[string]string)
	for i := range assets {
		a := assets[i].Clone()
		if err := validate(&a); err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
		if _, exists := r.byID[a.ID]; exists {
			return nil, fmt.Errorf("duplicate asset id %q", a.ID)
		}
		for _, term := range matchTerms(a) {
			if owner, taken := owners[term]; taken && owner != a.ID {
				return nil, fmt.Errorf("term %q claimed by both %s and %s", term, owner, a.ID)
			}
			owners[term] = a.ID
		}
		r.assets = append(r.assets, &a)
		r.byID[a.ID] = &a
	}
	return r, nil
}

func validate(a *domain.Asset) error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("%s: name is required", a.ID)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%s: unknown type %q", a.ID, a.Type)
	}
	for i, alias := range a.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			return fmt.Errorf("%s: empty alias", a.ID)
		}
		a.Aliases[i] = alias
	}
	for _, c := range a.Capabilities {
		if !c.Known() {
			return fmt.Errorf("%s: unknown capability %q", a.ID, c)
		}
	}
	return nil
}

// matchTerms is the lower-cased name followed by the aliases.
func matchTerms(a domain.Asset) []string {
	terms := make([]string, 0, len(a.Aliases)+1)
	terms = append(terms, strings.ToLower(a.Name))
	return append(terms, a.Aliases...)
}

// All returns every asset in registry order.
func (r *Registry) All() []domain.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Asset, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Clone()
	}
	return out
}

// Len returns the number of assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}

// ByID returns the asset with the given identifier.
func (r *Registry) ByID(id string) (domain.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Asset{}, false
	}
	return a.Clone(), true
}

// MatchByText returns the first asset, in registry order, whose lower-cased
// name or any alias occurs in normalized.
func (r *Registry) MatchByText(normalized string) (domain.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.assets {
		for _, term := range matchTerms(*a) {
			if strings.Contains(normalized, term) {
				return a.Clone(), true
			}
		}
	}
	return domain.Asset{}, false
}

// WithCapability returns the assets exposing c, in registry order.
func (r *Registry) WithCapability(c domain.Capability) []domain.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Asset
	for _, a := range r.assets {
		if a.HasCapability(c) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Relocate perturbs the asset position by at most MaxOffset per axis and
// draws a new grid reference.
func (r *Registry) Relocate(id string, rnd domain.Rand) (domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("relocate %s: %w", id, ErrAssetNotFound)
	}

	prev := a.Location
	a.Location.Lat += (rnd.Float64() - 0.5) * 2 * MaxOffset
	a.Location.Lon += (rnd.Float64() - 0.5) * 2 * MaxOffset
	a.Location.Grid = fmt.Sprintf("GR %d-%d",
		gridEastBase+rnd.IntN(gridEastSpan),
		gridNorthBase+rnd.IntN(gridNorthSpan))

	r.logger.Debug("Asset relocated",
		zap.String("asset_id", id),
		zap.String("grid", a.Location.Grid),
		zap.Float64("distance_m", geo.Distance(prev.Point(), a.Location.Point())))
	return a.Location, nil
}
