package fleet

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders the current asset positions as map markers.
func (r *Registry) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range r.All() {
		f := geojson.NewFeature(a.Location.Point())
		f.ID = a.ID
		f.Properties["name"] = a.Name
		f.Properties["type"] = string(a.Type)
		f.Properties["grid"] = a.Location.Grid
		f.Properties["avatar_group"] = string(a.AvatarGroup())
		fc.Append(f)
	}
	return fc
}
