package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
	"github.com/xiaot623/gogo/fleetconsole/internal/service"
	"github.com/xiaot623/gogo/fleetconsole/tests/helpers"
)

type captured struct {
	Type       string `json:"type"`
	DispatchID string `json:"dispatch_id"`
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	Outcome    string `json:"outcome"`
}

type captureHub struct {
	mu   sync.Mutex
	msgs []captured
}

func (h *captureHub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var c captured
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, c)
	return nil
}

func (h *captureHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.msgs))
	for i, m := range h.msgs {
		out[i] = m.Type
	}
	return out
}

func TestProcessCommandRejectsBlank(t *testing.T) {
	c := helpers.NewTestConsole(t, nil)

	_, err := c.Service.ProcessCommand(context.Background(), "   ")
	assert.ErrorIs(t, err, service.ErrEmptyCommand)

	list, err := c.Service.ListDispatches(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProcessCommandDispatched(t *testing.T) {
	ctx := context.Background()
	hub := &captureHub{}
	c := helpers.NewTestConsole(t, hub)

	outcome, err := c.Service.ProcessCommand(ctx, "Battery report")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeDispatched, outcome.Kind)

	assert.Equal(t, []string{"log", "status", "log", "outcome", "status"}, hub.types())
	assert.Equal(t, `"Battery report"`, hub.msgs[0].Text)
	assert.Equal(t, "User", hub.msgs[0].Kind)
	assert.Equal(t, service.StatusProcessing, hub.msgs[1].Text)
	assert.Equal(t, "CMD 'BATTERY' routed to: UAV-Alpha, Operator-Bravo, Sensor-Grid-1.", hub.msgs[2].Text)
	assert.Equal(t, "dispatched", hub.msgs[3].Outcome)
	assert.Equal(t, service.StatusStandby, hub.msgs[4].Text)
	for _, m := range hub.msgs {
		assert.Equal(t, outcome.DispatchID, m.DispatchID)
	}

	c.Sched.RunAll()

	d, err := c.Service.GetDispatch(ctx, outcome.DispatchID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, domain.OutcomeDispatched, d.Outcome)
	assert.Equal(t, "battery", d.Intent)
	assert.Equal(t, []string{"drone-alpha", "soldier-bravo", "sensor-grid-1"}, d.Targets)

	speak, err := c.Service.GetDispatchEvents(ctx, outcome.DispatchID, 0, []string{"speak"}, 0)
	require.NoError(t, err)
	require.Len(t, speak, 3)
	var msg struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(speak[0].Payload, &msg))
	assert.Equal(t, "UAV-Alpha reports battery at 82%.", msg.Text)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.Commands.WithLabelValues("dispatched")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Metrics.ResponseUnits.WithLabelValues("battery")))
}

func TestProcessCommandDenied(t *testing.T) {
	ctx := context.Background()
	c := helpers.NewTestConsole(t, nil)

	outcome, err := c.Service.ProcessCommand(ctx, "Rhino temperature")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCapabilityDenied, outcome.Kind)
	assert.Zero(t, c.Sched.Pending())

	d, err := c.Service.GetDispatch(ctx, outcome.DispatchID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCapabilityDenied, d.Outcome)
	assert.Equal(t, "vehicle-rhino", d.AssetID)
	assert.Empty(t, d.Targets)

	logs, err := c.Service.GetDispatchEvents(ctx, outcome.DispatchID, 0, []string{"log"}, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Contains(t, string(logs[1].Payload), "UGV-Rhino does not have capability: 'temperature'.")
}

func TestProcessCommandUnrecognized(t *testing.T) {
	c := helpers.NewTestConsole(t, nil)

	outcome, err := c.Service.ProcessCommand(context.Background(), "sing a song")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnrecognized, outcome.Kind)
	assert.Nil(t, outcome.Intent)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.Commands.WithLabelValues("unrecognized")))
}

func TestProcessCommandMoveUpdatesAssets(t *testing.T) {
	c := helpers.NewTestConsole(t, nil)
	before := c.Service.GetAsset("vehicle-rhino")
	require.NotNil(t, before)

	_, err := c.Service.ProcessCommand(context.Background(), "UGV move out")
	require.NoError(t, err)
	c.Sched.RunAll()

	after := c.Service.GetAsset("vehicle-rhino")
	assert.NotEqual(t, before.Location, after.Location)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Metrics.Relocations))
}

func TestQueries(t *testing.T) {
	c := helpers.NewTestConsole(t, nil)

	intents := c.Service.ListIntents()
	require.Len(t, intents, 12)
	assert.Equal(t, "temperature", intents[0].Keyword)
	assert.Equal(t, "status report", intents[11].Keyword)
	assert.Empty(t, intents[11].Capability)

	assert.Len(t, c.Service.ListAssets(), 4)
	assert.Nil(t, c.Service.GetAsset("ghost"))
	assert.Len(t, c.Service.AssetsGeoJSON().Features, 4)
}
