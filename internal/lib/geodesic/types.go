package geodesic

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// Vertex is one resampled point of the geodesic line
type Vertex struct {
	Point     orb.Point `json:"point"`     // Window coordinates, within ±HalfWorldWidth
	Distance  float64   `json:"distance"`  // Great-circle meters from the start of the path
	Step      int       `json:"step"`      // Steps from the start of its segment, 0 for the segment start
	Original  bool      `json:"original"`  // One of the input points
	Synthetic bool      `json:"synthetic"` // Boundary vertex introduced at an antimeridian crossing

	// continuous holds the point unwrapped relative to the first input point,
	// so consecutive vertices never jump by a world width
	continuous orb.Point
}

// Segment is the geodesic between two consecutive input points
type Segment struct {
	Index    int       `json:"index"`
	Start    orb.Point `json:"start"`
	End      orb.Point `json:"end"`
	Length   float64   `json:"length_meters"`
	Vertices []Vertex  `json:"vertices"`

	bound orb.Bound
}

// Kind categorizes a measurement annotation
type Kind string

const (
	KindVertex  Kind = "vertex"  // Cumulative distance at a resampled vertex
	KindBearing Kind = "bearing" // Initial direction of a two-point path
	KindTotal   Kind = "total"   // Total length of the path
)

// Style is a request for the rendering layer to draw one annotation
type Style struct {
	Kind     Kind      `json:"kind"`
	Position orb.Point `json:"position"`
	Value    float64   `json:"value"` // Meters, or degrees for bearings
	Text     string    `json:"text"`
}

const (
	// DefaultStepDistance is the maximum great-circle distance between resampled vertices
	DefaultStepDistance = 1000.0

	// MinStepDistance is the smallest step accepted, in meters
	MinStepDistance = 1.0

	// DefaultExtentBuffer pads segment extents for forgiving hit-testing (projected units)
	DefaultExtentBuffer = 10.0

	// DefaultLabelSpacing is the minimum screen distance between vertex labels (pixels)
	DefaultLabelSpacing = 40.0
)

// Options tune the engine
type Options struct {
	StepDistance     float64
	ExtentBuffer     float64
	LabelSpacing     float64
	BearingReference geo.BearingReference
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		StepDistance:     DefaultStepDistance,
		ExtentBuffer:     DefaultExtentBuffer,
		LabelSpacing:     DefaultLabelSpacing,
		BearingReference: geo.TrueNorth,
	}
}

// Option configures an Engine
type Option func(*Options)

// WithStepDistance sets the maximum distance in meters between resampled
// vertices. Steps below MinStepDistance are raised to it.
func WithStepDistance(meters float64) Option {
	return func(o *Options) {
		if meters > 0 {
			o.StepDistance = math.Max(meters, MinStepDistance)
		}
	}
}

// WithExtentBuffer sets the padding applied to segment extents
func WithExtentBuffer(buffer float64) Option {
	return func(o *Options) {
		if buffer >= 0 {
			o.ExtentBuffer = buffer
		}
	}
}

// WithLabelSpacing sets the minimum pixel distance between vertex labels
func WithLabelSpacing(pixels float64) Option {
	return func(o *Options) {
		if pixels > 0 {
			o.LabelSpacing = pixels
		}
	}
}

// WithBearingReference selects how the bearing indicator is measured
func WithBearingReference(ref geo.BearingReference) Option {
	return func(o *Options) {
		o.BearingReference = ref
	}
}
