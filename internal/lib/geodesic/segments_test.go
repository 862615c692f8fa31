package geodesic

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

func TestEngine_SegmentExtent(t *testing.T) {
	engine := New(equatorPath())

	extent, ok := engine.SegmentExtent(0)
	require.True(t, ok)

	bound := engine.segments[0].bound
	assert.Less(t, extent.Min[0], bound.Min[0], "Extent should be padded")
	assert.Less(t, extent.Min[1], bound.Min[1])
	assert.Greater(t, extent.Max[0], bound.Max[0])
	assert.Greater(t, extent.Max[1], bound.Max[1])
	assert.InDelta(t, -DefaultExtentBuffer, extent.Min[0], 1e-6)
	assert.InDelta(t, 4500+DefaultExtentBuffer, extent.Max[0], 1e-6)

	unpadded := New(equatorPath(), WithExtentBuffer(0))
	extent, ok = unpadded.SegmentExtent(0)
	require.True(t, ok)
	assert.Equal(t, unpadded.segments[0].bound, extent)

	_, ok = engine.SegmentExtent(1)
	assert.False(t, ok)
	_, ok = engine.SegmentExtent(-1)
	assert.False(t, ok)
}

func TestEngine_SegmentExtent_Antimeridian(t *testing.T) {
	engine := New(seamPath())

	extent, ok := engine.SegmentExtent(0)
	require.True(t, ok)
	assert.Less(t, extent.Min[0], -half, "Extent should include the west boundary vertex")
	assert.Greater(t, extent.Max[0], half, "Extent should include the east boundary vertex")
}

func TestEngine_SegmentExtents(t *testing.T) {
	engine := New([]orb.Point{{0, 0}, {2500, 0}, {2500, 1500}})

	extents := engine.SegmentExtents()
	require.Len(t, extents, 2)
	assert.True(t, extents[0].Intersects(extents[1]), "Consecutive segments share an end point")
	assert.InDelta(t, 1500+DefaultExtentBuffer, extents[1].Max[1], 1e-6)
}

func TestEngine_Subsegments(t *testing.T) {
	engine := New(equatorPath())

	subs := engine.Subsegments(0, orb.Bound{Min: orb.Point{500, -1e-9}, Max: orb.Point{2000, 1e-9}})
	require.Len(t, subs, 3, "Pair ending on the extent edge is included")

	for i, start := range []float64{0, 1000, 2000} {
		require.Len(t, subs[i], 2)
		assert.InDelta(t, start, subs[i][0][0], 1e-6, "pair %d", i)
		assert.InDelta(t, start+1000, subs[i][1][0], 1e-6, "pair %d", i)
	}

	assert.Empty(t, engine.Subsegments(0, orb.Bound{Min: orb.Point{-500, 100}, Max: orb.Point{5000, 200}}))
	assert.Nil(t, engine.Subsegments(2, orb.Bound{}))
}

func TestEngine_Subsegments_WorldWideExtent(t *testing.T) {
	engine := New(equatorPath())

	subs := engine.Subsegments(0, orb.Bound{Min: orb.Point{-half - 1, -1}, Max: orb.Point{half + 1, 1}})
	assert.Len(t, subs, 5, "Every pair matches an extent covering the world")
}

func TestEngine_Subsegments_Antimeridian(t *testing.T) {
	engine := New(seamPath())

	check := func(extent orb.Bound) {
		subs := engine.Subsegments(0, extent)
		require.Len(t, subs, 1, "Only the pair across the seam matches")

		sub := subs[0]
		require.Len(t, sub, 4, "Crossing pair includes both boundary vertices")
		assert.InDelta(t, half-500, sub[0][0], 1e-6)
		assert.Equal(t, half, sub[1][0])
		assert.Equal(t, -half, sub[2][0])
		assert.InDelta(t, -half+500, sub[3][0], 1e-6)
	}

	check(orb.Bound{Min: orb.Point{half - 100, -1}, Max: orb.Point{half + 100, 1}})
	check(orb.Bound{Min: orb.Point{-half - 100, -1}, Max: orb.Point{-half + 100, 1}})

	// The far ends are matched through either copy
	subs := engine.Subsegments(0, orb.Bound{Min: orb.Point{-half + 1000, -1}, Max: orb.Point{-half + 2000, 1}})
	require.Len(t, subs, 1)
	assert.Equal(t, orb.Point{-half + 1500, 0}, subs[0][1])
}

func TestEngine_Subsegments_CoincidentPoints(t *testing.T) {
	p := orb.Point{1000, 2000}
	engine := New([]orb.Point{p, p})

	subs := engine.Subsegments(0, orb.Bound{Min: orb.Point{900, 1900}, Max: orb.Point{1100, 2100}})
	require.Len(t, subs, 1)
	assert.Equal(t, orb.LineString{p, p}, subs[0])

	assert.Empty(t, engine.Subsegments(0, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}))
}

func TestIntersectsWrapped(t *testing.T) {
	b := orb.Bound{Min: orb.Point{half - 10, 0}, Max: orb.Point{half + 10, 1}}

	assert.True(t, intersectsWrapped(b, orb.Bound{Min: orb.Point{half - 5, 0}, Max: orb.Point{half, 1}}))
	assert.True(t, intersectsWrapped(b, orb.Bound{Min: orb.Point{-half, 0}, Max: orb.Point{-half + 5, 1}}))
	assert.True(t, intersectsWrapped(b, orb.Bound{Min: orb.Point{-half - 5, 0}, Max: orb.Point{-half + 5, 1}}),
		"Extent straddling the west edge matches its eastern copy")
	assert.False(t, intersectsWrapped(b, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 1}}))
	assert.False(t, intersectsWrapped(b, orb.Bound{Min: orb.Point{half - 5, 2}, Max: orb.Point{half, 3}}))

	world := orb.Bound{Min: orb.Point{-geo.WorldWidth, 0}, Max: orb.Point{geo.WorldWidth, 1}}
	assert.True(t, intersectsWrapped(b, world))

	// Bounds too wide or not finite still terminate
	huge := orb.Bound{Min: orb.Point{-1e30, 0}, Max: orb.Point{1e30, 1}}
	assert.NotPanics(t, func() { intersectsWrapped(huge, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 1}}) })
	nan := orb.Bound{Min: orb.Point{math.NaN(), 0}, Max: orb.Point{math.NaN(), 1}}
	assert.False(t, intersectsWrapped(nan, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 1}}))
}
