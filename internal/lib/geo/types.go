package geo

import (
	"math"

	"github.com/dpup/prefab/errors"
	"github.com/paulmach/orb"
)

// HalfWorldWidth is the projected x of the antimeridian in spherical Web Mercator
const HalfWorldWidth = math.Pi * orb.EarthRadius

// WorldWidth is the projected width of one copy of the world
const WorldWidth = 2 * HalfWorldWidth

// Path represents an ordered list of projected points (meters at the equator)
type Path []orb.Point

// BearingReference selects how directions are measured
type BearingReference int

const (
	// TrueNorth measures the initial great-circle bearing, clockwise from north
	TrueNorth BearingReference = iota
	// GridNorth measures the direction of the straight projected chord
	GridNorth
)

// String returns the config name of the reference
func (r BearingReference) String() string {
	switch r {
	case GridNorth:
		return "grid"
	default:
		return "true"
	}
}

// ParseBearingReference parses a config value. An empty value means TrueNorth.
func ParseBearingReference(s string) (BearingReference, error) {
	switch s {
	case "", "true":
		return TrueNorth, nil
	case "grid":
		return GridNorth, nil
	}
	return TrueNorth, errors.Errorf("unknown bearing reference %q", s)
}
