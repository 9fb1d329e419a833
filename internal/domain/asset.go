package domain

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"
)

// Location is an asset position.
type Location struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Grid string  `json:"grid" yaml:"grid"`
}

// Point returns the location as an orb point (lon, lat).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// Asset represents an addressable simulated entity.
type Asset struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         AssetType     `json:"type"`
	Aliases      []string      `json:"aliases"`
	Capabilities []Capability  `json:"capabilities"`
	Location     Location      `json:"location"`
	Gauges       map[Gauge]int `json:"gauges,omitempty"`
}

// HasCapability reports whether the asset exposes c.
func (a Asset) HasCapability(c Capability) bool {
	return slices.Contains(a.Capabilities, c)
}

// Gauge returns the value of gauge g, if the asset carries it.
func (a Asset) Gauge(g Gauge) (int, bool) {
	v, ok := a.Gauges[g]
	return v, ok
}

// AvatarGroup returns the console avatar associated with the asset type.
func (a Asset) AvatarGroup() AvatarGroup {
	switch a.Type {
	case AssetTypeVehicle, AssetTypeSoldier:
		return AvatarGroupOperator
	default:
		return AvatarGroupAI
	}
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	a.Aliases = slices.Clone(a.Aliases)
	a.Capabilities = slices.Clone(a.Capabilities)
	a.Gauges = maps.Clone(a.Gauges)
	return a
}

// Rand is the random source used for flavour values and relocation.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}
