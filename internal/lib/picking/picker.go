package picking

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/dpup/mapmeasure/internal/lib/geo"
	"github.com/dpup/mapmeasure/internal/lib/geodesic"
)

// picker implements the Picker interface
type picker struct {
	options        []geodesic.Option
	engines        map[string]*geodesic.Engine
	mutex          sync.RWMutex
	onPathPixels   float64
	nearPathPixels float64
}

// NewPicker creates a Picker whose paths are measured with the given engine options
func NewPicker(opts ...geodesic.Option) Picker {
	return &picker{
		options:        opts,
		engines:        make(map[string]*geodesic.Engine),
		onPathPixels:   DefaultOnPathPixels,
		nearPathPixels: DefaultNearPathPixels,
	}
}

// SetTolerances changes the pixel tolerances used to classify hits
func (p *picker) SetTolerances(onPath, nearPath float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.onPathPixels = onPath
	p.nearPathPixels = math.Max(onPath, nearPath)
}

// Pick returns the registered path closest to the pointer
func (p *picker) Pick(ctx context.Context, pointer Pointer) (Hit, error) {
	if math.IsNaN(pointer.Resolution) || pointer.Resolution <= 0 {
		return Hit{}, errors.Errorf("invalid resolution: %v", pointer.Resolution)
	}

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	location, _ := geo.Normalize(pointer.Location)
	tolerance := p.nearPathPixels * pointer.Resolution
	box := orb.Bound{Min: location, Max: location}.Pad(tolerance)

	best := Hit{Segment: -1, Distance: math.Inf(1), Classification: Miss}
	for _, id := range p.sortedIDs() {
		engine := p.engines[id]
		for i := 0; i < engine.SegmentCount(); i++ {
			extent, _ := engine.SegmentExtent(i)
			if !nearExtent(extent, box) {
				continue
			}
			for _, sub := range engine.Subsegments(i, box) {
				d := distanceToSubsegment(sub, location) / pointer.Resolution
				if d < best.Distance {
					best = Hit{PathID: id, Segment: i, Subsegment: sub, Distance: d}
				}
			}
		}
	}

	switch {
	case best.Distance <= p.onPathPixels:
		best.Classification = OnPath
	case best.Distance <= p.nearPathPixels:
		best.Classification = NearPath
	default:
		return Hit{Segment: -1, Classification: Miss}, nil
	}

	ctx = logging.EnsureLogger(ctx)
	logging.Debugw(ctx, "Picked path",
		"path_id", best.PathID,
		"segment", best.Segment,
		"distance_px", best.Distance,
		"classification", best.Classification)
	return best, nil
}

// UpdatePath measures the path and registers it under id
func (p *picker) UpdatePath(ctx context.Context, id string, path []orb.Point) error {
	if id == "" {
		return errors.New("path id is required")
	}
	if len(path) < 2 {
		return errors.Errorf("path %q must have at least 2 points", id)
	}

	engine := geodesic.New(path, p.options...)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	_, replaced := p.engines[id]
	p.engines[id] = engine

	ctx = logging.EnsureLogger(ctx)
	logging.Debugw(ctx, "Updated path geometry",
		"path_id", id,
		"points", len(path),
		"runs", engine.Runs(),
		"replaced", replaced)
	return nil
}

// RemovePath unregisters the path with the given id
func (p *picker) RemovePath(ctx context.Context, id string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, exists := p.engines[id]; !exists {
		return errors.Errorf("unknown path %q", id)
	}
	delete(p.engines, id)

	logging.Debugw(logging.EnsureLogger(ctx), "Removed path", "path_id", id)
	return nil
}

// Engine returns the engine for a registered path
func (p *picker) Engine(id string) (*geodesic.Engine, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	engine, exists := p.engines[id]
	return engine, exists
}

// sortedIDs keeps ties between equally close paths stable. Caller holds the lock.
func (p *picker) sortedIDs() []string {
	ids := make([]string, 0, len(p.engines))
	for id := range p.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nearExtent reports whether box touches extent or its copy one world to either side
func nearExtent(extent, box orb.Bound) bool {
	for _, shift := range []float64{0, geo.WorldWidth, -geo.WorldWidth} {
		shifted := orb.Bound{
			Min: orb.Point{box.Min[0] + shift, box.Min[1]},
			Max: orb.Point{box.Max[0] + shift, box.Max[1]},
		}
		if extent.Intersects(shifted) {
			return true
		}
	}
	return false
}

// distanceToSubsegment is the planar distance from p to sub, skipping the
// jump between boundary vertices and measuring across the seam where needed
func distanceToSubsegment(sub orb.LineString, p orb.Point) float64 {
	if len(sub) == 1 {
		return planar.Distance(sub[0], p)
	}

	closest := math.Inf(1)
	for i := 0; i+1 < len(sub); i++ {
		a, b := sub[i], sub[i+1]
		if math.Abs(a[0]) == geo.HalfWorldWidth && b[0] == -a[0] {
			continue
		}
		for _, shift := range []float64{0, geo.WorldWidth, -geo.WorldWidth} {
			q := orb.Point{p[0] + shift, p[1]}
			closest = math.Min(closest, planar.DistanceFromSegment(a, b, q))
		}
	}
	return closest
}
