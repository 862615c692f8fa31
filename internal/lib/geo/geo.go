package geo

import (
	"math"

	"github.com/dpup/prefab/errors"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/twpayne/go-polyline"
	"github.com/wroge/wgs84"
)

// antipodalTolerance is how close (radians) to a half great circle two points
// may get before interpolation falls back to a projected chord
const antipodalTolerance = 1e-6

var (
	mercatorToLonLat = wgs84.WebMercator().To(wgs84.LonLat())
	lonLatToMercator = wgs84.LonLat().To(wgs84.WebMercator())
)

// ToLonLat converts a projected point to [lon, lat] degrees
func ToLonLat(p orb.Point) orb.Point {
	lon, lat, _ := mercatorToLonLat(p[0], p[1], 0)
	return orb.Point{lon, lat}
}

// FromLonLat converts [lon, lat] degrees to a projected point
func FromLonLat(ll orb.Point) orb.Point {
	x, y, _ := lonLatToMercator(ll[0], ll[1], 0)
	return orb.Point{x, y}
}

// WindowOf returns which copy of the world a projected x falls in. The
// central copy spans [-HalfWorldWidth, HalfWorldWidth] and is copy 0.
// Copies are counted in float64 so huge inputs cannot overflow; a
// non-finite x yields NaN or ±Inf.
func WindowOf(x float64) float64 {
	switch {
	case x > HalfWorldWidth:
		return math.Ceil((x - HalfWorldWidth) / WorldWidth)
	case x < -HalfWorldWidth:
		return -math.Ceil((-x - HalfWorldWidth) / WorldWidth)
	case math.IsNaN(x):
		return math.NaN()
	}
	return 0
}

// Normalize moves a projected point into the central copy of the world
// and reports which copy it came from
func Normalize(p orb.Point) (orb.Point, float64) {
	w := WindowOf(p[0])
	if w == 0 || math.IsNaN(w) {
		return p, w
	}
	// Rounding at very large x can land just outside the window
	x := math.Max(-HalfWorldWidth, math.Min(HalfWorldWidth, p[0]-w*WorldWidth))
	if math.IsInf(w, 0) {
		x = math.NaN()
	}
	return orb.Point{x, p[1]}, w
}

// IsFinite reports whether both coordinates of p are finite numbers
func IsFinite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

func toS2(ll orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(ll[1], ll[0]))
}

func fromS2(p s2.Point) orb.Point {
	ll := s2.LatLngFromPoint(p)
	return orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}
}

// Distance calculates the great-circle distance in meters between two projected points
func Distance(a, b orb.Point) float64 {
	if a.Equal(b) {
		return 0
	}
	na, _ := Normalize(a)
	nb, _ := Normalize(b)
	return DistanceLonLat(ToLonLat(na), ToLonLat(nb))
}

// DistanceLonLat calculates the great-circle distance in meters between two [lon, lat] points
func DistanceLonLat(a, b orb.Point) float64 {
	if a.Equal(b) {
		return 0
	}
	return float64(toS2(a).Distance(toS2(b))) * orb.EarthRadius
}

// NearlyAntipodal reports whether the great circle between two [lon, lat]
// points is not well defined
func NearlyAntipodal(a, b orb.Point) bool {
	return float64(toS2(a).Distance(toS2(b))) > math.Pi-antipodalTolerance
}

// Interpolate returns the [lon, lat] point lying d meters from a along the
// great circle towards b
func Interpolate(a, b orb.Point, d float64) orb.Point {
	angle := s1.Angle(d / orb.EarthRadius)
	return fromS2(s2.InterpolateAtDistance(angle, toS2(a), toS2(b)))
}

// InitialBearing calculates the direction from a to b in degrees, clockwise
// from north in [0, 360). Coincident points have no bearing.
func InitialBearing(a, b orb.Point, ref BearingReference) (float64, bool) {
	if a.Equal(b) || !IsFinite(a) || !IsFinite(b) {
		return 0, false
	}

	var bearing float64
	switch ref {
	case GridNorth:
		bearing = math.Atan2(b[0]-a[0], b[1]-a[1]) * 180 / math.Pi
	default:
		na, _ := Normalize(a)
		nb, _ := Normalize(b)
		la, lb := ToLonLat(na), ToLonLat(nb)
		if DistanceLonLat(la, lb) == 0 {
			return 0, false
		}
		bearing = orbgeo.Bearing(la, lb)
	}

	if math.IsNaN(bearing) {
		return 0, false
	}
	bearing = math.Mod(bearing+360, 360)
	if bearing >= 360 {
		bearing = 0
	}
	return bearing, true
}

// Area calculates the spherical area in square meters enclosed by a projected ring
func Area(ring orb.Ring) float64 {
	if len(ring) < 4 {
		return 0
	}
	ll := make(orb.Ring, len(ring))
	for i, p := range ring {
		n, _ := Normalize(p)
		ll[i] = ToLonLat(n)
	}
	area := math.Abs(orbgeo.Area(orb.Polygon{ll}))
	if math.IsNaN(area) || math.IsInf(area, 0) {
		return 0
	}
	return area
}

// DecodePolyline decodes a Google polyline string (lat/lng) to projected points
func DecodePolyline(encoded string) (Path, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to decode polyline", 0)
	}

	points := make(Path, len(coords))
	for i, coord := range coords {
		if !isValidCoordinate(coord[0], coord[1]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
		points[i] = FromLonLat(orb.Point{coord[1], coord[0]})
	}

	return points, nil
}

// EncodePolyline encodes projected points as a Google polyline string
func EncodePolyline(points Path) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		n, _ := Normalize(p)
		ll := ToLonLat(n)
		coords[i] = []float64{ll[1], ll[0]}
	}
	return string(polyline.EncodeCoords(coords))
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
