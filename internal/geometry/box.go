// Package geometry provides the axis-aligned box algebra the stowage
// planners are built on. Width maps to x, depth to y, height to z.
package geometry

import "math"

// Epsilon absorbs floating drift in overlap and containment tests.
// Every caller must use this constant; mixing tolerances produces false
// occupancy reports on shared faces.
const Epsilon = 1e-6

// Vec is a point or extent in container space.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dims holds a box's extents along each axis.
type Dims struct {
	W float64 `json:"w"`
	D float64 `json:"d"`
	H float64 `json:"h"`
}

// Volume returns W*D*H.
func (d Dims) Volume() float64 { return d.W * d.D * d.H }

// Fits reports whether the dims fit inside outer on every axis.
func (d Dims) Fits(outer Dims) bool {
	return d.W <= outer.W+Epsilon && d.D <= outer.D+Epsilon && d.H <= outer.H+Epsilon
}

// Box is a half-open axis-aligned box [Min, Max).
type Box struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// NewBox builds a box from a min corner and effective dims.
func NewBox(min Vec, d Dims) Box {
	return Box{
		Min: min,
		Max: Vec{X: min.X + d.W, Y: min.Y + d.D, Z: min.Z + d.H},
	}
}

// Dims returns the box's extents.
func (b Box) Dims() Dims {
	return Dims{W: b.Max.X - b.Min.X, D: b.Max.Y - b.Min.Y, H: b.Max.Z - b.Min.Z}
}

// Volume returns the box's volume.
func (b Box) Volume() float64 { return b.Dims().Volume() }

// Overlap reports whether the interiors of a and b intersect. Boxes that
// merely share a face (within Epsilon) do not overlap.
func Overlap(a, b Box) bool {
	return !(a.Max.X <= b.Min.X+Epsilon || a.Min.X >= b.Max.X-Epsilon ||
		a.Max.Y <= b.Min.Y+Epsilon || a.Min.Y >= b.Max.Y-Epsilon ||
		a.Max.Z <= b.Min.Z+Epsilon || a.Min.Z >= b.Max.Z-Epsilon)
}

// Contains reports whether inner lies fully within outer, inclusive of the
// upper faces within Epsilon.
func Contains(outer, inner Box) bool {
	return inner.Min.X >= outer.Min.X-Epsilon && inner.Max.X <= outer.Max.X+Epsilon &&
		inner.Min.Y >= outer.Min.Y-Epsilon && inner.Max.Y <= outer.Max.Y+Epsilon &&
		inner.Min.Z >= outer.Min.Z-Epsilon && inner.Max.Z <= outer.Max.Z+Epsilon
}

// AxisDistance returns the L∞ gap between a and b: the largest per-axis
// separation between their extents, 0 when they touch or overlap.
func AxisDistance(a, b Box) float64 {
	dx := axisGap(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	dy := axisGap(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	dz := axisGap(a.Min.Z, a.Max.Z, b.Min.Z, b.Max.Z)
	return math.Max(dx, math.Max(dy, dz))
}

func axisGap(aMin, aMax, bMin, bMax float64) float64 {
	if aMax < bMin {
		return bMin - aMax
	}
	if bMax < aMin {
		return aMin - bMax
	}
	return 0
}

// SpansOverlap reports whether the 1D extents [aMin,aMax) and [bMin,bMax)
// intersect under the epsilon rule.
func SpansOverlap(aMin, aMax, bMin, bMax float64) bool {
	return aMax > bMin+Epsilon && aMin < bMax-Epsilon
}
