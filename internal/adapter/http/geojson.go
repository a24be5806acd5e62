package http

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// mapFeatures converts plotted vehicles into a FeatureCollection of points
// carrying the hover fields.
func mapFeatures(points []domain.MapPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Longitude, p.Latitude})
		f.Properties["make"] = p.Make
		f.Properties["city"] = p.City
		f.Properties["model"] = p.Model
		f.Properties["electric_range"] = p.ElectricRange
		fc.Append(f)
	}
	return fc
}

// mapCenter returns the bounding-box center of the points as (lat, lon), or
// the fallback when there is nothing to plot.
func mapCenter(points []domain.MapPoint, fallback orb.Point) (lat, lon float64) {
	if len(points) == 0 {
		return fallback.Lat(), fallback.Lon()
	}
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.Longitude, p.Latitude}
	}
	c := mp.Bound().Center()
	return c.Lat(), c.Lon()
}
