package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geodesic"
	"github.com/dpup/mapmeasure/internal/lib/picking"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func formatPoint(p orb.Point) string {
	return fmt.Sprintf("%.3f, %.3f", p[0], p[1])
}

func renderLine(w io.Writer, engine *geodesic.Engine) {
	t := newTable(w, "Line")
	t.AppendHeader(table.Row{"Run", "Vertices", "Start", "End"})
	for i, run := range engine.LineGeometry() {
		t.AppendRow(table.Row{i, len(run), formatPoint(run[0]), formatPoint(run[len(run)-1])})
	}
	t.AppendFooter(table.Row{"Total", "", "", geodesic.FormatDistance(engine.TotalLength())})
	t.Render()

	polygon, ok := engine.PolygonGeometry()
	if !ok {
		fmt.Fprintln(w, "No polygon: the line crosses the antimeridian")
		return
	}
	area, _ := engine.Area()
	fmt.Fprintf(w, "Polygon: %d vertices, %.2f m²\n", len(polygon[0][0]), area)
}

func renderStyles(w io.Writer, resolution float64, styles []geodesic.Style) {
	t := newTable(w, fmt.Sprintf("Labels at %g units/px", resolution))
	t.AppendHeader(table.Row{"Kind", "Position", "Text"})
	for _, s := range styles {
		t.AppendRow(table.Row{s.Kind, formatPoint(s.Position), s.Text})
	}
	t.Render()
}

func renderSegment(w io.Writer, seg geodesic.Segment, extent orb.Bound, bearing float64, hasBearing bool, query orb.Bound, subs []orb.LineString) {
	t := newTable(w, fmt.Sprintf("Segment %d", seg.Index))
	t.AppendRows([]table.Row{
		{"Start", formatPoint(seg.Start)},
		{"End", formatPoint(seg.End)},
		{"Length", geodesic.FormatDistance(seg.Length)},
		{"Vertices", len(seg.Vertices)},
		{"Extent", formatPoint(extent.Min) + " / " + formatPoint(extent.Max)},
	})
	if hasBearing {
		t.AppendRow(table.Row{"Bearing", geodesic.FormatBearing(bearing)})
	}
	t.Render()

	st := newTable(w, "Subsegments in "+formatPoint(query.Min)+" / "+formatPoint(query.Max))
	st.AppendHeader(table.Row{"#", "From", "To", "Points"})
	for i, sub := range subs {
		st.AppendRow(table.Row{i, formatPoint(sub[0]), formatPoint(sub[len(sub)-1]), len(sub)})
	}
	st.Render()
}

func renderHit(w io.Writer, location orb.Point, hit picking.Hit) {
	t := newTable(w, "Pick at "+formatPoint(location))
	t.AppendRow(table.Row{"Classification", hit.Classification})
	if hit.Classification != picking.Miss {
		t.AppendRows([]table.Row{
			{"Path", hit.PathID},
			{"Segment", hit.Segment},
			{"Distance", fmt.Sprintf("%.1f px", hit.Distance)},
		})
	}
	t.Render()
}
