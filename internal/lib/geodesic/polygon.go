package geodesic

import (
	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// closePolygon turns the resampled line into a ring. A line split at the
// antimeridian has no polygon since the ring would need seam handling.
func closePolygon(path geo.Path, runs orb.MultiLineString) orb.MultiPolygon {
	switch {
	case len(path) == 1:
		p, _ := geo.Normalize(path[0])
		return orb.MultiPolygon{{orb.Ring{p}}}
	case len(runs) != 1:
		return nil
	}

	run := runs[0]
	ring := make(orb.Ring, 0, len(run)+1)
	ring = append(ring, run...)
	ring = append(ring, run[0])
	return orb.MultiPolygon{{ring}}
}

// PolygonGeometry returns the closed ring of the resampled line, if the line
// was not split at the antimeridian
func (e *Engine) PolygonGeometry() (orb.MultiPolygon, bool) {
	if e.polygon == nil {
		return nil, false
	}
	ring := append(orb.Ring(nil), e.polygon[0][0]...)
	return orb.MultiPolygon{{ring}}, true
}

// Area returns the spherical area in square meters enclosed by the polygon
func (e *Engine) Area() (float64, bool) {
	if e.polygon == nil {
		return 0, false
	}
	return geo.Area(e.polygon[0][0]), true
}
