package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/dpup/prefab/errors"
	"github.com/paulmach/orb"

	"github.com/dpup/mapmeasure/internal/lib/geo"
)

// parsePath parses "x,y;x,y;..." projected coordinates
func parsePath(s string) (geo.Path, error) {
	var path geo.Path
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := parsePoint(part)
		if err != nil {
			return nil, err
		}
		path = append(path, p)
	}
	if len(path) == 0 {
		return nil, errors.Errorf("path %q has no points", s)
	}
	return path, nil
}

// parsePoint parses "x,y"
func parsePoint(s string) (orb.Point, error) {
	values, err := parseFloats(s, 2)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{values[0], values[1]}, nil
}

// parseBound parses "minx,miny,maxx,maxy"
func parseBound(s string) (orb.Bound, error) {
	values, err := parseFloats(s, 4)
	if err != nil {
		return orb.Bound{}, err
	}
	if values[0] > values[2] || values[1] > values[3] {
		return orb.Bound{}, errors.Errorf("extent %q has min greater than max", s)
	}
	return orb.Bound{
		Min: orb.Point{values[0], values[1]},
		Max: orb.Point{values[2], values[3]},
	}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, errors.Errorf("expected %d comma separated numbers, got %q", n, s)
	}

	values := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, errors.WrapPrefix(err, "invalid coordinate", 0)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("coordinate %q is not finite", field)
		}
		values[i] = v
	}
	return values, nil
}
