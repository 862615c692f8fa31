package geodesic

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// touchTolerance absorbs rounding in resampled coordinates so extents that
// meet edge to edge still count as intersecting
const touchTolerance = 1e-6

// SegmentCount returns the number of segments, one per pair of consecutive input points
func (e *Engine) SegmentCount() int {
	return len(e.segments)
}

// Segment returns a copy of segment i
func (e *Engine) Segment(i int) (Segment, bool) {
	if i < 0 || i >= len(e.segments) {
		return Segment{}, false
	}
	seg := e.segments[i]
	seg.Vertices = append([]Vertex(nil), seg.Vertices...)
	return seg, true
}

// SegmentExtent returns the bounding box of segment i's resampled vertices,
// boundary vertices included, padded by the extent buffer
func (e *Engine) SegmentExtent(i int) (orb.Bound, bool) {
	if i < 0 || i >= len(e.segments) {
		return orb.Bound{}, false
	}
	return e.segments[i].bound.Pad(e.opts.ExtentBuffer), true
}

// SegmentExtents returns the padded extent of every segment
func (e *Engine) SegmentExtents() []orb.Bound {
	extents := make([]orb.Bound, len(e.segments))
	for i := range e.segments {
		extents[i], _ = e.SegmentExtent(i)
	}
	return extents
}

// Subsegments returns, in order, the vertex pairs of segment i whose own
// bounding box intersects extent. A pair that crosses the antimeridian is
// treated as one pair and returned with its two boundary vertices in between.
func (e *Engine) Subsegments(i int, extent orb.Bound) []orb.LineString {
	if i < 0 || i >= len(e.segments) {
		return nil
	}
	extent = extent.Pad(touchTolerance)

	vertices := e.segments[i].Vertices
	var out []orb.LineString
	prev := -1
	for j, v := range vertices {
		if v.Synthetic {
			continue
		}
		if prev >= 0 {
			a := vertices[prev].continuous
			bound := orb.Bound{Min: a, Max: a}.Extend(v.continuous)
			if intersectsWrapped(bound, extent) {
				sub := make(orb.LineString, 0, j-prev+1)
				for _, w := range vertices[prev : j+1] {
					sub = append(sub, w.Point)
				}
				out = append(out, sub)
			}
		}
		prev = j
	}
	return out
}

// intersectsWrapped tests b against every copy of extent it could reach
func intersectsWrapped(b, extent orb.Bound) bool {
	if extent.Max[0]-extent.Min[0] >= geo.WorldWidth {
		return b.Max[1] >= extent.Min[1] && b.Min[1] <= extent.Max[1]
	}

	lo := math.Ceil((b.Min[0] - extent.Max[0]) / geo.WorldWidth)
	hi := math.Floor((b.Max[0] - extent.Min[0]) / geo.WorldWidth)
	// Both bounds are narrower than the world, so at most three copies can reach b
	for i := 0.0; i <= hi-lo && i < 3; i++ {
		shift := (lo + i) * geo.WorldWidth
		shifted := orb.Bound{
			Min: orb.Point{extent.Min[0] + shift, extent.Min[1]},
			Max: orb.Point{extent.Max[0] + shift, extent.Max[1]},
		}
		if b.Intersects(shifted) {
			return true
		}
	}
	return false
}
