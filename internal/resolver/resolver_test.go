package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/fleetconsole/internal/capability"
	"github.com/xiaot623/gogo/fleetconsole/internal/config"
	"github.com/xiaot623/gogo/fleetconsole/internal/fleet"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	assets, err := fleet.New(config.DefaultFleet(), nil)
	require.NoError(t, err)
	return New(capability.NewBuiltinRegistry(), assets)
}

func TestResolveNoKeyword(t *testing.T) {
	r := newTestResolver(t)
	for _, text := range []string{"", "hello there", "rhino, do a barrel roll", "Stand by"} {
		res := r.Resolve(text)
		assert.Nil(t, res.Intent, text)
	}
}

func TestResolveKeywordWithoutAsset(t *testing.T) {
	r := newTestResolver(t)
	intents := capability.NewBuiltinRegistry()
	for _, kw := range intents.Keywords() {
		res := r.Resolve("please " + kw + " now")
		require.NotNil(t, res.Intent, kw)
		assert.Equal(t, kw, res.Intent.Keyword)
		assert.Nil(t, res.Asset, kw)
	}
}

func TestResolvePrecedenceIgnoresTextPosition(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("Battery and then Temperature")
	require.NotNil(t, res.Intent)
	assert.Equal(t, "temperature", res.Intent.Keyword)

	res = r.Resolve("fuel check, then move")
	require.NotNil(t, res.Intent)
	assert.Equal(t, "move", res.Intent.Keyword)
}

func TestResolveLowercasesOnly(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("  UGV-RHINO,   MOVE!!  ")
	assert.Equal(t, "  ugv-rhino,   move!!  ", res.Normalized)
	assert.Equal(t, "  UGV-RHINO,   MOVE!!  ", res.Text)
	require.NotNil(t, res.Intent)
	assert.Equal(t, "move", res.Intent.Keyword)
	require.NotNil(t, res.Asset)
	assert.Equal(t, "vehicle-rhino", res.Asset.ID)
}

func TestResolveAssetWithoutIntent(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("Bravo, come in")
	assert.Nil(t, res.Intent)
	require.NotNil(t, res.Asset)
	assert.Equal(t, "soldier-bravo", res.Asset.ID)
}

func TestResolveMultiWordKeyword(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("Drone, analyze air quality")
	require.NotNil(t, res.Intent)
	assert.Equal(t, "air quality", res.Intent.Keyword)
	require.NotNil(t, res.Asset)
	assert.Equal(t, "drone-alpha", res.Asset.ID)

	res = r.Resolve("air-quality please")
	assert.Nil(t, res.Intent)
}
