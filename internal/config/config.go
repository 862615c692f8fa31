package config

import (
	"math"

	"github.com/dpup/prefab/errors"

	"github.com/dpup/mapmeasure/internal/lib/geo"
	"github.com/dpup/mapmeasure/internal/lib/geodesic"
	"github.com/dpup/mapmeasure/internal/lib/picking"
)

// Config represents the complete measure tool configuration
type Config struct {
	Measure MeasureConfig `koanf:"measure"`
}

// MeasureConfig holds the settings used to draw and annotate measured paths
type MeasureConfig struct {
	StepDistance      float64       `koanf:"step_distance"`      // meters between resampled vertices
	ExtentBuffer      float64       `koanf:"extent_buffer"`      // projected units added around segment extents
	LabelSpacing      float64       `koanf:"label_spacing"`      // minimum pixels between vertex labels
	BearingReference  string        `koanf:"bearing_reference"`  // "true" or "grid"
	DefaultResolution float64       `koanf:"default_resolution"` // projected units per pixel
	Output            string        `koanf:"output"`             // table, geojson, kml or polyline
	Picking           PickingConfig `koanf:"picking"`
}

// PickingConfig holds pointer hit-test tolerances in pixels
type PickingConfig struct {
	OnPathPixels   float64 `koanf:"on_path_pixels"`
	NearPathPixels float64 `koanf:"near_path_pixels"`
}

// Output formats supported by the CLI
const (
	OutputTable    = "table"
	OutputGeoJSON  = "geojson"
	OutputKML      = "kml"
	OutputPolyline = "polyline"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Measure: MeasureConfig{
			StepDistance:      geodesic.DefaultStepDistance,
			ExtentBuffer:      geodesic.DefaultExtentBuffer,
			LabelSpacing:      geodesic.DefaultLabelSpacing,
			BearingReference:  geo.TrueNorth.String(),
			DefaultResolution: 1,
			Output:            OutputTable,
			Picking: PickingConfig{
				OnPathPixels:   picking.DefaultOnPathPixels,
				NearPathPixels: picking.DefaultNearPathPixels,
			},
		},
	}
}

// Validate checks values that cannot be silently ignored by the engine
func (c MeasureConfig) Validate() error {
	if _, err := geo.ParseBearingReference(c.BearingReference); err != nil {
		return err
	}
	switch c.Output {
	case OutputTable, OutputGeoJSON, OutputKML, OutputPolyline:
	default:
		return errors.Errorf("unknown output format %q", c.Output)
	}
	if math.IsNaN(c.StepDistance) || c.StepDistance < geodesic.MinStepDistance {
		return errors.Errorf("step_distance must be at least %v meters, got %v", geodesic.MinStepDistance, c.StepDistance)
	}
	if c.DefaultResolution <= 0 {
		return errors.Errorf("default_resolution must be positive, got %v", c.DefaultResolution)
	}
	if c.Picking.OnPathPixels < 0 || c.Picking.NearPathPixels < c.Picking.OnPathPixels {
		return errors.New("picking tolerances must satisfy 0 <= on_path_pixels <= near_path_pixels")
	}
	return nil
}

// EngineOptions converts the configuration to geodesic engine options
func (c MeasureConfig) EngineOptions() []geodesic.Option {
	opts := []geodesic.Option{
		geodesic.WithStepDistance(c.StepDistance),
		geodesic.WithExtentBuffer(c.ExtentBuffer),
		geodesic.WithLabelSpacing(c.LabelSpacing),
	}
	if ref, err := geo.ParseBearingReference(c.BearingReference); err == nil {
		opts = append(opts, geodesic.WithBearingReference(ref))
	}
	return opts
}
