package geodesic

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// maxLabelInterval bounds the 1-2-5 ladder searched for a label interval
const maxLabelInterval = 1_000_000_000

// Styles returns the annotations to draw at the given map resolution
// (meters per pixel). Vertex labels are thinned out as the resolution
// coarsens; the total length, and the bearing of a single straight leg,
// are always present.
func (e *Engine) Styles(resolution float64) []Style {
	if len(e.path) < 2 {
		return nil
	}

	var styles []Style
	if every := e.labelInterval(resolution); every > 0 {
		for _, seg := range e.segments {
			for _, v := range seg.Vertices {
				if v.Original || v.Synthetic || v.Step%every != 0 {
					continue
				}
				styles = append(styles, Style{
					Kind:     KindVertex,
					Position: v.Point,
					Value:    v.Distance,
					Text:     FormatDistance(v.Distance),
				})
			}
		}
	}

	if bearing, ok := e.pathBearing(); ok {
		styles = append(styles, Style{
			Kind:     KindBearing,
			Position: e.runs[0][0],
			Value:    bearing,
			Text:     FormatBearing(bearing),
		})
	}

	last := e.runs[len(e.runs)-1]
	styles = append(styles, Style{
		Kind:     KindTotal,
		Position: last[len(last)-1],
		Value:    e.length,
		Text:     FormatDistance(e.length),
	})

	return styles
}

// labelInterval returns how many steps apart vertex labels are drawn, or 0
// if even the widest interval would crowd the map
func (e *Engine) labelInterval(resolution float64) int {
	if math.IsNaN(resolution) || resolution <= 0 {
		return 1
	}
	need := e.opts.LabelSpacing * resolution / e.opts.StepDistance
	for scale := 1; scale <= maxLabelInterval; scale *= 10 {
		for _, m := range []int{1, 2, 5} {
			if float64(m*scale) >= need {
				return m * scale
			}
		}
	}
	return 0
}

// pathBearing is the single bearing of a path made of one straight leg.
// Paths with more legs, or split at the antimeridian, get no indicator.
func (e *Engine) pathBearing() (float64, bool) {
	if len(e.path) != 2 || len(e.runs) != 1 {
		return 0, false
	}
	return e.SegmentBearing(0)
}

// SegmentBearing returns the initial bearing of segment i in degrees
func (e *Engine) SegmentBearing(i int) (float64, bool) {
	if i < 0 || i >= len(e.segments) {
		return 0, false
	}
	seg := e.segments[i]
	return geo.InitialBearing(seg.Start, seg.End, e.opts.BearingReference)
}

// FormatDistance renders meters as label text
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		km := math.Round(meters/10) / 100
		return humanize.CommafWithDigits(km, 2) + " km"
	}
	return humanize.FtoaWithDigits(meters, 2) + " m"
}

// FormatBearing renders degrees as label text
func FormatBearing(degrees float64) string {
	return fmt.Sprintf("%.2f°", degrees)
}
