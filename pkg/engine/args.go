package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/photofix/pkg/geometry"
)

// optional returns args[i], or "" when the argument was omitted.
func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func intArg(args []string, i int, label string, def int) (int, error) {
	s := optional(args, i)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}
	return v, nil
}

func floatArg(args []string, i int, label string, def float64) (float64, error) {
	s := optional(args, i)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}
	return v, nil
}

// fractionArg accepts a fraction like "0.5" or a percentage like "50%".
func fractionArg(args []string, i int, label string, def float64) (float64, error) {
	s := optional(args, i)
	if s == "" {
		return def, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s percent: %w", label, err)
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}
	return v, nil
}

func boolArg(args []string, i int, label string) (bool, error) {
	s := optional(args, i)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s flag: %w", label, err)
	}
	return v, nil
}

// ParsePoint reads "x,y".
func ParsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

// ParsePolyline reads "x,y;x,y;...".
func ParsePolyline(s string) (geometry.Polyline, error) {
	var line geometry.Polyline
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePoint(part)
		if err != nil {
			return nil, err
		}
		line = append(line, p)
	}
	return line, nil
}

func fourPoints(args []string) ([4]geometry.Point, error) {
	var pts [4]geometry.Point
	for i := range pts {
		p, err := ParsePoint(args[i])
		if err != nil {
			return pts, err
		}
		pts[i] = p
	}
	return pts, nil
}
