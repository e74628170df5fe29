// Package geo holds the small amount of planar geometry the map needs:
// coordinates, viewport bounds and Leaflet-style bound padding.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts to an orb point (X = longitude, Y = latitude).
func (p LatLng) Point() orb.Point { return orb.Point{p.Lng, p.Lat} }

// FromPoint converts an orb point back to a LatLng.
func FromPoint(pt orb.Point) LatLng { return LatLng{Lat: pt.Lat(), Lng: pt.Lon()} }

// Bounds is a latitude/longitude rectangle, as reported by the browser viewport.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundsOf returns the smallest rectangle containing all points.
// It returns false when points is empty.
func BoundsOf(points ...LatLng) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Point()
	}
	return fromBound(mp.Bound()), true
}

// Pad grows the rectangle by ratio of its own height and width on every side,
// matching Leaflet's LatLngBounds.pad.
func (b Bounds) Pad(ratio float64) Bounds {
	h := math.Abs(b.North-b.South) * ratio
	w := math.Abs(b.East-b.West) * ratio
	return Bounds{
		South: b.South - h,
		West:  b.West - w,
		North: b.North + h,
		East:  b.East + w,
	}
}

// Contains reports whether p lies inside or on the edge of the rectangle.
func (b Bounds) Contains(p LatLng) bool {
	return b.bound().Contains(p.Point())
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() LatLng {
	return FromPoint(b.bound().Center())
}

// IsZero reports whether the rectangle was never set.
func (b Bounds) IsZero() bool { return b == Bounds{} }

func (b Bounds) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

func fromBound(ob orb.Bound) Bounds {
	return Bounds{
		South: ob.Min.Lat(),
		West:  ob.Min.Lon(),
		North: ob.Max.Lat(),
		East:  ob.Max.Lon(),
	}
}
