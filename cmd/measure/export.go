package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dpup/prefab/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
	kml "github.com/twpayne/go-kml"

	"github.com/dpup/mapmeasure/internal/lib/geo"
	"github.com/dpup/mapmeasure/internal/lib/geodesic"
)

// featureCollection converts the measured line, its polygon and labels to
// lon/lat GeoJSON features
func featureCollection(engine *geodesic.Engine, styles []geodesic.Style) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := geojson.NewFeature(project.MultiLineString(engine.LineGeometry(), geo.ToLonLat))
	line.Properties["kind"] = "line"
	line.Properties["length_meters"] = engine.TotalLength()
	line.Properties["runs"] = engine.Runs()
	fc.Append(line)

	if polygon, ok := engine.PolygonGeometry(); ok {
		area, _ := engine.Area()
		f := geojson.NewFeature(project.MultiPolygon(polygon, geo.ToLonLat))
		f.Properties["kind"] = "polygon"
		f.Properties["area_square_meters"] = area
		fc.Append(f)
	}

	for _, s := range styles {
		f := geojson.NewFeature(geo.ToLonLat(s.Position))
		f.Properties["kind"] = string(s.Kind)
		f.Properties["value"] = s.Value
		f.Properties["text"] = s.Text
		fc.Append(f)
	}
	return fc
}

func writeGeoJSON(w io.Writer, engine *geodesic.Engine, styles []geodesic.Style) error {
	data, err := json.MarshalIndent(featureCollection(engine, styles), "", "  ")
	if err != nil {
		return errors.WrapPrefix(err, "failed to encode geojson", 0)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func kmlCoordinates(points []orb.Point) kml.Element {
	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		ll := geo.ToLonLat(p)
		coords[i] = kml.Coordinate{Lon: ll[0], Lat: ll[1]}
	}
	return kml.Coordinates(coords...)
}

// kmlDocument builds one placemark per run, the polygon when there is one,
// and a point placemark per label
func kmlDocument(engine *geodesic.Engine, styles []geodesic.Style) *kml.CompoundElement {
	lines := make([]kml.Element, 0, engine.Runs())
	for _, run := range engine.LineGeometry() {
		lines = append(lines, kml.LineString(kmlCoordinates(run)))
	}

	children := []kml.Element{
		kml.Name("measure"),
		kml.Placemark(
			kml.Name(geodesic.FormatDistance(engine.TotalLength())),
			kml.MultiGeometry(lines...),
		),
	}

	if polygon, ok := engine.PolygonGeometry(); ok {
		children = append(children, kml.Placemark(
			kml.Name("polygon"),
			kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kmlCoordinates(polygon[0][0])))),
		))
	}

	for _, s := range styles {
		children = append(children, kml.Placemark(
			kml.Name(s.Text),
			kml.Description(string(s.Kind)),
			kml.Point(kmlCoordinates([]orb.Point{s.Position})),
		))
	}

	return kml.KML(kml.Document(children...))
}

func writeKML(w io.Writer, engine *geodesic.Engine, styles []geodesic.Style) error {
	if err := kmlDocument(engine, styles).WriteIndent(w, "", "  "); err != nil {
		return errors.WrapPrefix(err, "failed to encode kml", 0)
	}
	return nil
}

// writePolyline writes one encoded polyline per run of the resampled line
func writePolyline(w io.Writer, engine *geodesic.Engine) error {
	for _, run := range engine.LineGeometry() {
		if _, err := fmt.Fprintln(w, geo.EncodePolyline(geo.Path(run))); err != nil {
			return errors.WrapPrefix(err, "failed to write polyline", 0)
		}
	}
	return nil
}
