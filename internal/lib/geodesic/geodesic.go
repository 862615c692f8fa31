// Package geodesic turns a path drawn on a Web Mercator map into the shape it
// has on the earth: great-circle resampled lines split at the antimeridian,
// an optional closed polygon, measurement annotations and per-segment extents
// for hit-testing.
//
// An Engine is immutable. Callers rebuild it whenever the drawing changes.
package geodesic

import (
	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// Engine is the derived, read-only view over one drawn path
type Engine struct {
	opts     Options
	path     geo.Path
	runs     orb.MultiLineString
	segments []Segment
	length   float64
	polygon  orb.MultiPolygon
}

// New builds an engine for the given path. Any path is accepted, including
// empty and single-point paths.
func New(path []orb.Point, opts ...Option) *Engine {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	e := &Engine{
		opts: options,
		path: append(geo.Path(nil), path...),
	}

	b := newBuilder(options)
	e.runs, e.segments = b.build(e.path)
	for _, seg := range e.segments {
		e.length += seg.Length
	}
	e.polygon = closePolygon(e.path, e.runs)

	return e
}

// Options returns the options the engine was built with
func (e *Engine) Options() Options {
	return e.opts
}

// Path returns a copy of the input path
func (e *Engine) Path() geo.Path {
	return append(geo.Path(nil), e.path...)
}

// LineGeometry returns the resampled runs, one per antimeridian-free stretch
func (e *Engine) LineGeometry() orb.MultiLineString {
	out := make(orb.MultiLineString, len(e.runs))
	for i, run := range e.runs {
		out[i] = append(orb.LineString(nil), run...)
	}
	return out
}

// Runs returns how many runs the line geometry was split into
func (e *Engine) Runs() int {
	return len(e.runs)
}

// TotalLength returns the sum of the great-circle segment lengths in meters
func (e *Engine) TotalLength() float64 {
	return e.length
}

// Crosses reports whether the line crosses the antimeridian
func (e *Engine) Crosses() bool {
	return len(e.runs) > 1
}
