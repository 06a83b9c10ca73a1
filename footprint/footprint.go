// Package footprint implements the robot footprint polygon math: padding,
// inscribed/circumscribed radii, and world-frame transform. Points are
// represented with github.com/golang/geo/r3.Vector (Z always zero), the
// same vector type every go.viam.com/rdk/spatialmath file uses, so this
// package composes cleanly with the rest of the stack even though the
// costmap itself only ever reasons in the ground plane.
package footprint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/costmap/costmaperrors"
)

// Footprint is an ordered polygon (>= 3 points) in the robot frame, plus its
// derived radii.
type Footprint struct {
	Points              []r3.Vector
	InscribedRadius     float64
	CircumscribedRadius float64
}

// New computes the derived radii for points and returns a Footprint.
// points must have at least 3 vertices.
func New(points []r3.Vector) (*Footprint, error) {
	if len(points) < 3 {
		return nil, costmaperrors.NewConfigError("footprint", "fewer than three points")
	}
	fp := &Footprint{Points: points}
	fp.InscribedRadius = InscribedRadius(points)
	fp.CircumscribedRadius = CircumscribedRadius(points)
	return fp, nil
}

// CircumscribedRadius is the furthest vertex-to-origin distance.
func CircumscribedRadius(points []r3.Vector) float64 {
	max := 0.0
	for _, p := range points {
		if d := p.Norm(); d > max {
			max = d
		}
	}
	return max
}

// InscribedRadius is the nearest edge-to-origin distance: within this
// distance of the origin, any orientation of the footprint collides.
func InscribedRadius(points []r3.Vector) float64 {
	min := math.Inf(1)
	n := len(points)
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		d := pointToSegmentDistance(r3.Vector{}, a, b)
		if d < min {
			min = d
		}
	}
	return min
}

// pointToSegmentDistance returns the distance from p to the segment ab,
// projecting onto the segment and clamping to its endpoints, using
// gonum/floats for the vector arithmetic (matching utils/distance.go's use
// of gonum/floats for Euclidean distance elsewhere in the pack).
func pointToSegmentDistance(p, a, b r3.Vector) float64 {
	ab := []float64{b.X - a.X, b.Y - a.Y}
	ap := []float64{p.X - a.X, p.Y - a.Y}

	abLenSq := floats.Dot(ab, ab)
	if abLenSq == 0 {
		return math.Hypot(ap[0], ap[1])
	}

	t := floats.Dot(ap, ab) / abLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := []float64{a.X + t*ab[0], a.Y + t*ab[1]}
	return math.Hypot(p.X-closest[0], p.Y-closest[1])
}

// sign returns -1, 0, or 1 — Go has no builtin signum.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Pad expands each vertex outward by padding: a vertex's x coordinate moves
// by sign(x)*padding and its y coordinate by sign(y)*padding independently,
// so a zero coordinate on an axis-aligned footprint is left alone. Callers
// are responsible for padding footprints that remain simple polygons.
func Pad(points []r3.Vector, padding float64) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = r3.Vector{
			X: p.X + sign(p.X)*padding,
			Y: p.Y + sign(p.Y)*padding,
			Z: p.Z,
		}
	}
	return out
}

// Transform rotates points by yaw (radians) about the origin, then
// translates by (x,y), yielding the polygon in world frame.
func Transform(x, y, yaw float64, points []r3.Vector) []r3.Vector {
	c, s := math.Cos(yaw), math.Sin(yaw)
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = r3.Vector{
			X: x + p.X*c - p.Y*s,
			Y: y + p.X*s + p.Y*c,
			Z: p.Z,
		}
	}
	return out
}

// FromString parses a bracketed list like "[[x,y],[x,y],...]" into points.
// It fails if fewer than three points are present, the syntax is
// malformed, or any coordinate is non-finite.
func FromString(s string) ([]r3.Vector, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSpace(s)

	var points []r3.Vector
	for {
		s = strings.TrimLeft(s, ", \t\r\n")
		if s == "" {
			break
		}
		if s[0] != '[' {
			return nil, costmaperrors.NewConfigError("footprint", "malformed point syntax in "+s)
		}
		close := strings.Index(s, "]")
		if close < 0 {
			return nil, costmaperrors.NewConfigError("footprint", "malformed point syntax in "+s)
		}
		pair := s[1:close]
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, costmaperrors.NewConfigError("footprint", fmt.Sprintf("expected 2 coordinates, got %d in %q", len(parts), pair))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, costmaperrors.NewConfigError("footprint", "non-numeric x coordinate: "+err.Error())
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, costmaperrors.NewConfigError("footprint", "non-numeric y coordinate: "+err.Error())
		}
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, costmaperrors.NewConfigError("footprint", "non-finite coordinate")
		}
		points = append(points, r3.Vector{X: x, Y: y})
		s = s[close+1:]
	}

	if len(points) < 3 {
		return nil, costmaperrors.NewConfigError("footprint", "fewer than three points")
	}
	return points, nil
}
