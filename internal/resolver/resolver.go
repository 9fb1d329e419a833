// Package resolver turns an utterance into an (intent, asset) pair using
// fixed-precedence substring matching.
package resolver

import (
	"strings"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// IntentMatcher finds the first declared intent contained in a text.
type IntentMatcher interface {
	Match(normalized string) (capability.Intent, bool)
}

// AssetMatcher finds the first registered asset named in a text.
type AssetMatcher interface {
	MatchByText(normalized string) (domain.Asset, bool)
}

// Resolution is the outcome of resolving one utterance. A nil Intent means
// the command was not recognized; a nil Asset means no asset was named.
type Resolution struct {
	Text       string
	Normalized string
	Intent     *capability.Intent
	Asset      *domain.Asset
}

// Resolver pairs intent matching with asset matching.
type Resolver struct {
	intents IntentMatcher
	assets  AssetMatcher
}

// New creates a resolver.
func New(intents IntentMatcher, assets AssetMatcher) *Resolver {
	return &Resolver{intents: intents, assets: assets}
}

// Resolve lower-cases text and matches intent and asset independently.
func (r *Resolver) Resolve(text string) Resolution {
	normalized := strings.ToLower(text)
	res := Resolution{Text: text, Normalized: normalized}

	if intent, ok := r.intents.Match(normalized); ok {
		res.Intent = &intent
	}
	if asset, ok := r.assets.MatchByText(normalized); ok {
		res.Asset = &asset
	}
	return res
}
