// Package capability holds the ordered intent registry: which keyword maps to
// which required capability and how an asset answers it.
package capability

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Relocator moves an asset and returns its new authoritative position.
type Relocator interface {
	Relocate(assetID string, rnd domain.Rand) (domain.Location, error)
}

// Env carries the collaborators a responder may use besides the asset itself.
type Env struct {
	Rand      domain.Rand
	Relocator Relocator
}

// ResponseFunc composes the text an asset answers with.
type ResponseFunc func(asset domain.Asset, env Env) string

// Intent is a recognized requested action.
type Intent struct {
	Keyword    string
	Capability domain.Capability // NoCapability: any asset, no gating
	Example    string
	Mutates    bool // the responder relocates the asset
	Respond    ResponseFunc
}

// RequiresCapability reports whether the intent is gated on a capability.
func (i Intent) RequiresCapability() bool {
	return i.Capability != domain.NoCapability
}

// Registry stores intents in declaration order. Order is the match precedence.
type Registry struct {
	mu      sync.RWMutex
	intents []Intent
	index   map[string]int
}

// NewRegistry creates an empty intent registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register appends an intent. Keywords are matched lower-cased.
func (r *Registry) Register(intent Intent) error {
	intent.Keyword = strings.ToLower(strings.TrimSpace(intent.Keyword))
	if intent.Keyword == "" {
		return fmt.Errorf("intent keyword is required")
	}
	if intent.Respond == nil {
		return fmt.Errorf("responder is required for %q", intent.Keyword)
	}
	if intent.RequiresCapability() && !intent.Capability.Known() {
		return fmt.Errorf("unknown capability %q for %q", intent.Capability, intent.Keyword)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[intent.Keyword]; exists {
		return fmt.Errorf("intent already registered for %q", intent.Keyword)
	}
	r.index[intent.Keyword] = len(r.intents)
	r.intents = append(r.intents, intent)
	return nil
}

// MustRegister adds an intent or panics.
func (r *Registry) MustRegister(intent Intent) {
	if err := r.Register(intent); err != nil {
		panic(err)
	}
}

// Lookup returns the intent declared for keyword.
func (r *Registry) Lookup(keyword string) (Intent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[strings.ToLower(keyword)]
	if !ok {
		return Intent{}, false
	}
	return r.intents[i], true
}

// Keywords lists keywords in declaration order.
func (r *Registry) Keywords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.intents))
	for i, intent := range r.intents {
		out[i] = intent.Keyword
	}
	return out
}

// All lists intents in declaration order.
func (r *Registry) All() []Intent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Intent, len(r.intents))
	copy(out, r.intents)
	return out
}

// Match returns the first declared intent whose keyword is a substring of
// normalized. Position within the text plays no part.
func (r *Registry) Match(normalized string) (Intent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, intent := range r.intents {
		if strings.Contains(normalized, intent.Keyword) {
			return intent, true
		}
	}
	return Intent{}, false
}
