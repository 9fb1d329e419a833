package capability

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

type fakeRelocator struct {
	calls []string
}

func (f *fakeRelocator) Relocate(assetID string, _ domain.Rand) (domain.Location, error) {
	f.calls = append(f.calls, assetID)
	return domain.Location{Grid: "GR 482-845"}, nil
}

func TestBuiltinKeywordOrder(t *testing.T) {
	r := NewBuiltinRegistry()
	assert.Equal(t, []string{
		"temperature", "video", "move", "cargo", "health", "position",
		"air quality", "scan", "seismic", "battery", "fuel", "status report",
	}, r.Keywords())
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()
	respond := func(domain.Asset, Env) string { return "" }

	assert.Error(t, r.Register(Intent{Keyword: " ", Respond: respond}))
	assert.Error(t, r.Register(Intent{Keyword: "ping"}))
	assert.Error(t, r.Register(Intent{Keyword: "ping", Capability: "teleport", Respond: respond}))
	require.NoError(t, r.Register(Intent{Keyword: "Ping", Respond: respond}))
	assert.Error(t, r.Register(Intent{Keyword: "ping", Respond: respond}))

	got, ok := r.Lookup("PING")
	require.True(t, ok)
	assert.Equal(t, "ping", got.Keyword)
	assert.False(t, got.RequiresCapability())
}

func TestMatchFirstDeclaredWins(t *testing.T) {
	r := NewBuiltinRegistry()

	got, ok := r.Match("report battery then temperature")
	require.True(t, ok)
	assert.Equal(t, "temperature", got.Keyword)

	got, ok = r.Match("scan for seismic activity")
	require.True(t, ok)
	assert.Equal(t, "scan", got.Keyword)

	_, ok = r.Match("hello there")
	assert.False(t, ok)
}

func TestMatchIsCaseSensitiveOnNormalizedInput(t *testing.T) {
	r := NewBuiltinRegistry()
	_, ok := r.Match("VIDEO")
	assert.False(t, ok, "resolver lower-cases before matching")
}

func TestBuiltinResponses(t *testing.T) {
	r := NewBuiltinRegistry()
	env := Env{Rand: testRand()}
	drone := domain.Asset{
		ID:       "drone-alpha",
		Name:     "UAV-Alpha",
		Location: domain.Location{Grid: "GR 483-847"},
		Gauges:   map[domain.Gauge]int{domain.GaugeBattery: 82},
	}

	cases := []struct {
		keyword string
		want    string
	}{
		{"video", "UAV-Alpha: Establishing encrypted video feed."},
		{"health", "UAV-Alpha: Vitals are stable. No anomalies detected."},
		{"position", "UAV-Alpha: Current grid reference is GR 483-847."},
		{"scan", "UAV-Alpha: Ground penetrating scan initiated. No anomalies detected."},
		{"seismic", "UAV-Alpha: No significant seismic activity detected."},
		{"battery", "UAV-Alpha reports battery at 82%."},
		{"fuel", "UAV-Alpha reports fuel level at unknown level."},
		{"status report", "Generic status report requested from UAV-Alpha."},
	}
	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			intent, ok := r.Lookup(tc.keyword)
			require.True(t, ok)
			assert.Equal(t, tc.want, intent.Respond(drone, env))
		})
	}
}

func TestRandomResponsesStayInBounds(t *testing.T) {
	r := NewBuiltinRegistry()
	env := Env{Rand: testRand()}
	a := domain.Asset{Name: "Sensor-Grid-1"}

	bounded := []struct {
		keyword string
		pattern *regexp.Regexp
		lo, hi  int
	}{
		{"temperature", regexp.MustCompile(`^Sensor-Grid-1 reporting: Ambient temperature is (\d+)°C\.$`), 18, 32},
		{"cargo", regexp.MustCompile(`^Sensor-Grid-1: Cargo bay is at (\d+)% capacity\.$`), 0, 99},
		{"air quality", regexp.MustCompile(`^Sensor-Grid-1: Air quality index is (\d+) \(Good\)\.$`), 10, 39},
	}
	for _, tc := range bounded {
		intent, ok := r.Lookup(tc.keyword)
		require.True(t, ok)
		for i := 0; i < 50; i++ {
			m := tc.pattern.FindStringSubmatch(intent.Respond(a, env))
			require.Len(t, m, 2, tc.keyword)
			n, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, tc.lo, tc.keyword)
			assert.LessOrEqual(t, n, tc.hi, tc.keyword)
		}
	}
}

func TestMoveRelocates(t *testing.T) {
	r := NewBuiltinRegistry()
	reloc := &fakeRelocator{}
	intent, ok := r.Lookup("move")
	require.True(t, ok)
	assert.True(t, intent.Mutates)

	text := intent.Respond(domain.Asset{ID: "vehicle-rhino", Name: "UGV-Rhino"}, Env{Rand: testRand(), Relocator: reloc})
	assert.Equal(t, "UGV-Rhino acknowledging. Relocating to new position.", text)
	assert.Equal(t, []string{"vehicle-rhino"}, reloc.calls)
}
