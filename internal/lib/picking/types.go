package picking

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geodesic"
)

// Classification describes how close a pointer is to a drawn path
type Classification string

const (
	OnPath   Classification = "on_path"   // within the on-path pixel tolerance
	NearPath Classification = "near_path" // within the near-path pixel tolerance
	Miss     Classification = "miss"
)

// Default tolerances in screen pixels
const (
	DefaultOnPathPixels   = 5.0
	DefaultNearPathPixels = 15.0
)

// Pointer is a pointer position on the map
type Pointer struct {
	Location   orb.Point `json:"location"`   // projected coordinates
	Resolution float64   `json:"resolution"` // projected units per pixel
}

// Hit is the closest drawn path to a pointer
type Hit struct {
	PathID         string         `json:"path_id,omitempty"`
	Segment        int            `json:"segment"`
	Subsegment     orb.LineString `json:"subsegment,omitempty"`
	Distance       float64        `json:"distance"` // pixels
	Classification Classification `json:"classification"`
}

// Picker finds which of a set of measured paths lies under the pointer
type Picker interface {
	// Pick returns the closest path to the pointer
	Pick(ctx context.Context, pointer Pointer) (Hit, error)

	// UpdatePath adds or replaces the path registered under id
	UpdatePath(ctx context.Context, id string, path []orb.Point) error

	// RemovePath unregisters a path
	RemovePath(ctx context.Context, id string) error

	// SetTolerances changes the pixel distances used to classify hits
	SetTolerances(onPath, nearPath float64)

	// Engine returns the engine drawing a registered path
	Engine(id string) (*geodesic.Engine, bool)
}

// NewPicker is implemented in picker.go
