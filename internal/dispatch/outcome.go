package dispatch

import (
	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// Outcome describes how a resolution was handled. Units for a dispatched
// outcome may still be pending on the scheduler when it is returned.
type Outcome struct {
	Kind       domain.OutcomeKind
	DispatchID string
	Intent     *capability.Intent
	// Asset is the explicitly named asset, if any.
	Asset *domain.Asset
	// Targets are the assets that received a response unit, in stagger order.
	Targets []domain.Asset
	// Reason is the policy's explanation for a denial.
	Reason string
}

// Keyword returns the matched intent keyword or "".
func (o Outcome) Keyword() string {
	if o.Intent == nil {
		return ""
	}
	return o.Intent.Keyword
}

// AssetID returns the named asset's ID or "".
func (o Outcome) AssetID() string {
	if o.Asset == nil {
		return ""
	}
	return o.Asset.ID
}

// TargetIDs lists target asset IDs in order.
func (o Outcome) TargetIDs() []string {
	ids := make([]string, len(o.Targets))
	for i, a := range o.Targets {
		ids[i] = a.ID
	}
	return ids
}
