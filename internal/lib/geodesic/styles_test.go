package geodesic

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

func countKinds(styles []Style) map[Kind]int {
	counts := map[Kind]int{}
	for _, s := range styles {
		counts[s.Kind]++
	}
	return counts
}

func TestEngine_Styles_FineResolution(t *testing.T) {
	engine := New(equatorPath())

	styles := engine.Styles(1)
	require.Len(t, styles, 6, "4 vertex labels, a bearing and a total")

	counts := countKinds(styles)
	assert.Equal(t, 4, counts[KindVertex])
	assert.Equal(t, 1, counts[KindBearing])
	assert.Equal(t, 1, counts[KindTotal])

	for i, want := range []string{"1 km", "2 km", "3 km", "4 km"} {
		assert.Equal(t, KindVertex, styles[i].Kind)
		assert.Equal(t, want, styles[i].Text)
		assert.InDelta(t, float64(i+1)*1000, styles[i].Position[0], 1e-6)
	}

	bearing := styles[4]
	assert.Equal(t, KindBearing, bearing.Kind)
	assert.InDelta(t, 90, bearing.Value, 0.01)
	assert.Equal(t, "90.00°", bearing.Text)
	assert.Equal(t, orb.Point{0, 0}, bearing.Position, "Bearing is drawn at the start")

	total := styles[5]
	assert.Equal(t, KindTotal, total.Kind)
	assert.InDelta(t, 4500, total.Value, 1e-6)
	assert.Equal(t, "4.5 km", total.Text)
	assert.Equal(t, orb.Point{4500, 0}, total.Position, "Total is drawn at the end")
}

func TestEngine_Styles_CoarseResolution(t *testing.T) {
	engine := New(equatorPath())

	styles := engine.Styles(100000)
	require.Len(t, styles, 2, "Only bearing and total at coarse resolution")
	assert.Equal(t, KindBearing, styles[0].Kind)
	assert.Equal(t, KindTotal, styles[1].Kind)

	assert.Len(t, engine.Styles(math.Inf(1)), 2)
}

func TestEngine_Styles_InvalidResolution(t *testing.T) {
	engine := New(equatorPath())

	assert.Len(t, engine.Styles(0), 6, "Non-positive resolution shows every label")
	assert.Len(t, engine.Styles(-5), 6)
	assert.Len(t, engine.Styles(math.NaN()), 6)
}

func TestEngine_Styles_Declutter(t *testing.T) {
	engine := New([]orb.Point{{0, 0}, {10000, 0}})

	vertexValues := func(styles []Style) []float64 {
		var values []float64
		for _, s := range styles {
			if s.Kind == KindVertex {
				values = append(values, math.Round(s.Value))
			}
		}
		return values
	}

	assert.Len(t, vertexValues(engine.Styles(1)), 9)
	assert.Equal(t, []float64{2000, 4000, 6000, 8000}, vertexValues(engine.Styles(50)), "Every other step at 50m/px")
	assert.Equal(t, []float64{5000}, vertexValues(engine.Styles(60)), "Every fifth step at 60m/px")

	tight := New([]orb.Point{{0, 0}, {10000, 0}}, WithLabelSpacing(20))
	assert.Len(t, vertexValues(tight.Styles(60)), 4, "Smaller spacing fits more labels")
}

func TestEngine_Styles_Antimeridian(t *testing.T) {
	engine := New(seamPath())

	styles := engine.Styles(1)
	counts := countKinds(styles)
	assert.Equal(t, 2, counts[KindVertex], "Boundary vertices get no labels")
	assert.Equal(t, 0, counts[KindBearing], "Split paths get no bearing")
	assert.Equal(t, 1, counts[KindTotal])
	assert.Len(t, styles, 3)

	for _, s := range styles {
		assert.NotEqual(t, half, math.Abs(s.Position[0]), "No label sits on the boundary")
	}

	coarse := engine.Styles(100000)
	require.Len(t, coarse, 1)
	assert.Equal(t, KindTotal, coarse[0].Kind)
	assert.InDelta(t, 3000, coarse[0].Value, 1e-3)
}

func TestEngine_Styles_ThreePointsAcrossAntimeridian(t *testing.T) {
	engine := New(append(seamPath(), orb.Point{-half + 1500, 2000}))

	for _, resolution := range []float64{1, 100, 100000} {
		counts := countKinds(engine.Styles(resolution))
		assert.Equal(t, 0, counts[KindBearing], "resolution %v", resolution)
		assert.Equal(t, 1, counts[KindTotal], "resolution %v", resolution)
	}
	assert.Len(t, engine.Styles(1), 4)
}

func TestEngine_Styles_NoBearingForMultipleLegs(t *testing.T) {
	engine := New([]orb.Point{{0, 0}, {2500, 0}, {2500, 1500}})

	counts := countKinds(engine.Styles(1))
	assert.Equal(t, 0, counts[KindBearing])
	assert.Equal(t, 3, counts[KindVertex])
	assert.Equal(t, 1, counts[KindTotal])

	// Each segment still has its own bearing
	bearing, ok := engine.SegmentBearing(0)
	require.True(t, ok)
	assert.InDelta(t, 90, bearing, 0.01)
	bearing, ok = engine.SegmentBearing(1)
	require.True(t, ok)
	assert.InDelta(t, 0, bearing, 0.01)

	_, ok = engine.SegmentBearing(5)
	assert.False(t, ok)
}

func TestEngine_Styles_Bearing(t *testing.T) {
	west := New([]orb.Point{{0, 0}, {-1000, 0}}).Styles(1)
	assert.InDelta(t, 270, west[len(west)-2].Value, 0.01)

	north := New([]orb.Point{{0, 0}, {0, 1000}}).Styles(1)
	assert.InDelta(t, 0, north[len(north)-2].Value, 0.01)

	grid := New([]orb.Point{{0, 0}, {1000, 1000}}, WithBearingReference(geo.GridNorth)).Styles(1)
	assert.Equal(t, KindBearing, grid[len(grid)-2].Kind)
	assert.InDelta(t, 45, grid[len(grid)-2].Value, 1e-9)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "0 m", FormatDistance(0))
	assert.Equal(t, "999.5 m", FormatDistance(999.5))
	assert.Equal(t, "1 km", FormatDistance(1000))
	assert.Equal(t, "12,345.68 km", FormatDistance(12345678))
	assert.Equal(t, "90.00°", FormatBearing(90))
}
