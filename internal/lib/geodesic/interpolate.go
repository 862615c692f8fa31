package geodesic

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// stepTolerance keeps a resampled vertex from landing on top of a segment end
const stepTolerance = 1e-3

// builder resamples a path one segment at a time, opening a new run every
// time the line leaves the current copy of the world
type builder struct {
	opts  Options
	runs  orb.MultiLineString
	shift float64 // world copy the current run is drawn in
	last  Vertex  // most recently emitted vertex
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts}
}

func (b *builder) build(path geo.Path) (orb.MultiLineString, []Segment) {
	if len(path) < 2 {
		return nil, nil
	}

	start, w := geo.Normalize(path[0])
	b.shift = w
	// A start on the seam belongs to the copy its first segment heads into
	if math.Abs(start[0]) == geo.HalfWorldWidth && geo.IsFinite(path[1]) {
		next, _ := geo.Normalize(path[1])
		c := math.Round((path[0][0] - next[0]) / geo.WorldWidth)
		dx := next[0] + c*geo.WorldWidth - path[0][0]
		switch {
		case start[0] > 0 && dx > 0:
			start[0], b.shift = -geo.HalfWorldWidth, w+1
		case start[0] < 0 && dx < 0:
			start[0], b.shift = geo.HalfWorldWidth, w-1
		}
	}
	b.last = Vertex{Point: start, Original: true, continuous: path[0]}
	b.runs = orb.MultiLineString{{start}}

	segments := make([]Segment, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		segments = append(segments, b.segment(i, path[i], path[i+1]))
	}
	return b.runs, segments
}

func (b *builder) segment(index int, from, to orb.Point) Segment {
	na, _ := geo.Normalize(from)
	nb, _ := geo.Normalize(to)
	la, lb := geo.ToLonLat(na), geo.ToLonLat(nb)
	length := 0.0
	// Non-finite ends have no measurable length and are not resampled
	if geo.IsFinite(from) && geo.IsFinite(to) {
		length = geo.DistanceLonLat(la, lb)
	}

	first := b.last
	first.Step = 0
	seg := Segment{
		Index:    index,
		Start:    from,
		End:      to,
		Length:   length,
		Vertices: []Vertex{first},
	}

	offset := first.Distance
	step := b.opts.StepDistance

	// No unique great circle joins (near) antipodal points, draw the chord instead
	chord := geo.NearlyAntipodal(la, lb)
	startX := first.continuous
	endX, _ := b.place(to)

	k := 1
	for ; float64(k)*step < length-stepTolerance; k++ {
		d := float64(k) * step

		var v Vertex
		var c float64
		if chord {
			f := d / length
			v, c = b.place(orb.Point{
				startX[0] + f*(endX.continuous[0]-startX[0]),
				startX[1] + f*(endX.continuous[1]-startX[1]),
			})
		} else {
			v, c = b.place(geo.FromLonLat(geo.Interpolate(la, lb, d)))
		}
		v.Distance = offset + d
		v.Step = k
		seg.Vertices = b.advance(seg.Vertices, v, c)
	}

	end, c := b.place(to)
	end.Distance = offset + length
	end.Step = k
	end.Original = true
	seg.Vertices = b.advance(seg.Vertices, end, c)

	seg.bound = vertexBound(seg.Vertices)
	return seg
}

// place normalizes p into the central world copy and picks the continuous
// copy closest to the last vertex, returning that copy's index
func (b *builder) place(p orb.Point) (Vertex, float64) {
	np, _ := geo.Normalize(p)
	c := math.Round((b.last.continuous[0] - np[0]) / geo.WorldWidth)
	return Vertex{
		Point:      np,
		continuous: orb.Point{np[0] + c*geo.WorldWidth, np[1]},
	}, c
}

// advance appends v to the current run, first closing the run and opening
// a new one when the step from the last vertex crosses a boundary
func (b *builder) advance(vertices []Vertex, v Vertex, world float64) []Vertex {
	// Consecutive vertices are never more than half a world apart, so a
	// larger jump only comes from coordinates too large or not finite to
	// place. Keep those in the current run.
	if d := world - b.shift; math.IsNaN(d) || math.Abs(d) > 1 {
		world = b.shift
		v.continuous = orb.Point{v.Point[0] + b.shift*geo.WorldWidth, v.Point[1]}
	}

	// A vertex exactly on the seam stays in the run it came from
	switch {
	case world == b.shift+1 && v.Point[0] == -geo.HalfWorldWidth:
		v.Point[0], world = geo.HalfWorldWidth, b.shift
	case world == b.shift-1 && v.Point[0] == geo.HalfWorldWidth:
		v.Point[0], world = -geo.HalfWorldWidth, b.shift
	}

	if world != b.shift {
		dir := 1.0
		if world < b.shift {
			dir = -1
		}
		boundary := dir * geo.HalfWorldWidth
		bx := b.shift*geo.WorldWidth + boundary

		prev := b.last
		t := 0.0
		if dx := v.continuous[0] - prev.continuous[0]; dx != 0 {
			t = (bx - prev.continuous[0]) / dx
		}
		y := prev.continuous[1] + t*(v.continuous[1]-prev.continuous[1])
		distance := prev.Distance + t*(v.Distance-prev.Distance)

		exit := Vertex{
			Point:      orb.Point{boundary, y},
			Distance:   distance,
			Step:       v.Step,
			Synthetic:  true,
			continuous: orb.Point{bx, y},
		}
		entry := exit
		entry.Point = orb.Point{-boundary, y}

		run := b.runs[len(b.runs)-1]
		if !run[len(run)-1].Equal(exit.Point) {
			b.runs[len(b.runs)-1] = append(run, exit.Point)
			vertices = append(vertices, exit)
		}
		b.runs = append(b.runs, orb.LineString{entry.Point})
		vertices = append(vertices, entry)

		b.shift = world
		b.last = entry
	}

	b.runs[len(b.runs)-1] = append(b.runs[len(b.runs)-1], v.Point)
	b.last = v
	return append(vertices, v)
}

func vertexBound(vertices []Vertex) orb.Bound {
	points := make(orb.MultiPoint, len(vertices))
	for i, v := range vertices {
		points[i] = v.Point
	}
	return points.Bound()
}
