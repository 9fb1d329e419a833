package helpers

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/config"
	"github.com/xiaot623/gogo/fleetconsole/internal/dispatch"
	"github.com/xiaot623/gogo/fleetconsole/internal/fleet"
	"github.com/xiaot623/gogo/fleetconsole/internal/metrics"
	"github.com/xiaot623/gogo/fleetconsole/internal/policy"
	"github.com/xiaot623/gogo/fleetconsole/internal/random"
	"github.com/xiaot623/gogo/fleetconsole/internal/repository"
	"github.com/xiaot623/gogo/fleetconsole/internal/scheduler"
	"github.com/xiaot623/gogo/fleetconsole/internal/service"
	"github.com/xiaot623/gogo/fleetconsole/internal/sink"
)

// Console bundles a fully wired service over the default fleet.
type Console struct {
	Service *service.Service
	Store   *repository.SQLiteStore
	Fleet   *fleet.Registry
	Sched   *scheduler.Manual
	Metrics *metrics.Metrics
}

// NewTestConsole wires a console on a manual clock. hub may be nil.
func NewTestConsole(t *testing.T, hub sink.Broadcaster) *Console {
	t.Helper()
	logger := zaptest.NewLogger(t)

	reg, err := fleet.New(config.DefaultFleet(), logger)
	if err != nil {
		t.Fatalf("failed to create fleet: %v", err)
	}
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	store := NewTestSQLiteStore(t)
	sched := scheduler.NewManual(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	m := metrics.New()
	d := dispatch.New(reg, engine, sched, random.New(1), dispatch.DefaultTiming(), logger)

	return &Console{
		Service: service.New(store, capability.NewBuiltinRegistry(), reg, d, hub, m, logger),
		Store:   store,
		Fleet:   reg,
		Sched:   sched,
		Metrics: m,
	}
}
