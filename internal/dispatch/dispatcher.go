// Package dispatch turns a resolution into an outcome and schedules one
// staggered response unit per target asset.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/policy"
	"github.com/xiaot623/gogo/fleetconsole/internal/resolver"
	"github.com/xiaot623/gogo/fleetconsole/internal/scheduler"
	"github.com/xiaot623/gogo/fleetconsole/internal/sink"
)

// Default timings.
const (
	DefaultStagger        = 300 * time.Millisecond
	DefaultHighlight      = 2500 * time.Millisecond
	DefaultSelectionClear = 2 * time.Second
)

// Spoken error texts.
const (
	SpeakUnrecognized = "Command not recognized. Please try again."
	SpeakNoCapable    = "Error: No asset can perform that action."
)

// Fleet is the view of the asset registry the dispatcher needs.
type Fleet interface {
	capability.Relocator
	All() []domain.Asset
	ByID(id string) (domain.Asset, bool)
	WithCapability(c domain.Capability) []domain.Asset
}

// Gate decides whether a named asset may serve an intent.
type Gate interface {
	Evaluate(ctx context.Context, input policy.Input) (string, string, error)
}

// Timing holds the dispatch delays.
type Timing struct {
	Stagger        time.Duration
	Highlight      time.Duration
	SelectionClear time.Duration
}

// DefaultTiming returns the console's standard delays.
func DefaultTiming() Timing {
	return Timing{
		Stagger:        DefaultStagger,
		Highlight:      DefaultHighlight,
		SelectionClear: DefaultSelectionClear,
	}
}

// Dispatcher routes resolved commands to assets.
type Dispatcher struct {
	fleet  Fleet
	gate   Gate
	sched  scheduler.Scheduler
	rnd    domain.Rand
	timing Timing
	logger *zap.Logger

	labelMu sync.Mutex
	label   string
}

// New creates a dispatcher. A nil gate falls back to the asset's own
// capability list.
func New(fleet Fleet, gate Gate, sched scheduler.Scheduler, rnd domain.Rand, timing Timing, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		fleet:  fleet,
		gate:   gate,
		sched:  sched,
		rnd:    rnd,
		timing: timing,
		logger: logger,
	}
}

// Dispatch handles one resolution. Every path terminates in an outcome;
// error paths emit their log entry and speech synchronously and schedule nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, dispatchID string, res resolver.Resolution, out sink.Sink) Outcome {
	outcome := Outcome{DispatchID: dispatchID, Intent: res.Intent, Asset: res.Asset}

	if res.Intent == nil {
		out.LogEntry(domain.SourceError, fmt.Sprintf(`Command not recognized: "%s"`, res.Text), "")
		out.Speak(SpeakUnrecognized)
		outcome.Kind = domain.OutcomeUnrecognized
		return outcome
	}
	intent := *res.Intent

	var targets []domain.Asset
	switch {
	case res.Asset != nil:
		allowed, reason := d.allowed(ctx, intent, *res.Asset)
		if !allowed {
			out.LogEntry(domain.SourceError,
				fmt.Sprintf("%s does not have capability: '%s'.", res.Asset.Name, intent.Capability), "")
			out.Speak(fmt.Sprintf("Error: %s cannot perform that action.", res.Asset.Name))
			outcome.Kind = domain.OutcomeCapabilityDenied
			outcome.Reason = reason
			return outcome
		}
		targets = []domain.Asset{*res.Asset}
	case intent.RequiresCapability():
		targets = d.fleet.WithCapability(intent.Capability)
	default:
		targets = d.fleet.All()
	}

	if len(targets) == 0 {
		out.LogEntry(domain.SourceError, fmt.Sprintf("No asset with capability: '%s'.", intent.Capability), "")
		out.Speak(SpeakNoCapable)
		outcome.Kind = domain.OutcomeNoCapableAsset
		return outcome
	}

	names := make([]string, len(targets))
	for i, a := range targets {
		names[i] = a.Name
	}
	out.LogEntry(domain.SourceSystem,
		fmt.Sprintf("CMD '%s' routed to: %s.", strings.ToUpper(intent.Keyword), strings.Join(names, ", ")), "")

	tasks := make([]scheduler.Task, len(targets))
	for i, a := range targets {
		tasks[i] = scheduler.Task{
			Delay: time.Duration(i) * d.timing.Stagger,
			Run:   func() { d.runUnit(intent, a, out) },
		}
	}
	d.sched.Submit(tasks...)

	d.logger.Info("Command dispatched",
		zap.String("dispatch_id", dispatchID),
		zap.String("intent", intent.Keyword),
		zap.Int("targets", len(targets)))

	outcome.Kind = domain.OutcomeDispatched
	outcome.Targets = targets
	return outcome
}

// allowed asks the gate first and falls back to the capability list when
// there is no gate or evaluation fails.
func (d *Dispatcher) allowed(ctx context.Context, intent capability.Intent, asset domain.Asset) (bool, string) {
	if !intent.RequiresCapability() {
		return true, ""
	}
	if d.gate != nil {
		decision, reason, err := d.gate.Evaluate(ctx, policy.NewInput(intent.Keyword, intent.Capability, asset))
		if err == nil {
			return decision != policy.DecisionDeny, reason
		}
		d.logger.Warn("Policy evaluation failed, using capability list",
			zap.String("asset_id", asset.ID),
			zap.String("intent", intent.Keyword),
			zap.Error(err))
	}
	return asset.HasCapability(intent.Capability), ""
}

// runUnit is one asset's response: highlight, respond, speak, then the
// deferred un-highlight and label clear.
func (d *Dispatcher) runUnit(intent capability.Intent, asset domain.Asset, out sink.Sink) {
	group := asset.AvatarGroup()
	label := asset.Name + " SELECTED"

	out.SetHighlight(asset.ID, group, true)
	d.setLabel(out, label)
	out.FocusAsset(asset.ID)

	// Read the latest snapshot so responses see earlier relocations.
	if current, ok := d.fleet.ByID(asset.ID); ok {
		asset = current
	}
	text := intent.Respond(asset, capability.Env{Rand: d.rnd, Relocator: d.fleet})
	if intent.Mutates {
		if moved, ok := d.fleet.ByID(asset.ID); ok {
			out.AssetMoved(moved)
		}
	}
	out.LogEntry(domain.SourceAsset, text, asset.Name)
	out.Speak(text)

	d.sched.Submit(scheduler.Task{
		Delay: d.timing.Highlight,
		Run: func() {
			out.SetHighlight(asset.ID, group, false)
			d.sched.Submit(scheduler.Task{
				Delay: d.timing.SelectionClear,
				Run:   func() { d.clearLabel(out, label) },
			})
		},
	})
}

func (d *Dispatcher) setLabel(out sink.Sink, label string) {
	d.labelMu.Lock()
	d.label = label
	d.labelMu.Unlock()
	out.SetSelectionLabel(label)
}

// clearLabel blanks the label only if no later unit has replaced it.
func (d *Dispatcher) clearLabel(out sink.Sink, label string) {
	d.labelMu.Lock()
	if d.label != label {
		d.labelMu.Unlock()
		return
	}
	d.label = ""
	d.labelMu.Unlock()
	out.SetSelectionLabel("")
}

// SelectionLabel returns the current selection label.
func (d *Dispatcher) SelectionLabel() string {
	d.labelMu.Lock()
	defer d.labelMu.Unlock()
	return d.label
}
