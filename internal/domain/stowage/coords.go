package stowage

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Tusker13-04/interstellar/internal/geometry"
)

// ErrBadCoordinates is returned when an arrangement coordinate string
// cannot be parsed.
var ErrBadCoordinates = errors.New("invalid coordinates")

var coordNumber = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// FormatCoordinates renders a box as the arrangement-CSV literal
// "(x0,y0,z0),(x1,y1,z1)" with three decimal places.
func FormatCoordinates(b geometry.Box) string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f),(%.3f,%.3f,%.3f)",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// ParseCoordinates parses the arrangement coordinate literal back into a
// box. It tolerates integer and float components but requires exactly six
// and min < max on every axis.
func ParseCoordinates(s string) (geometry.Box, error) {
	nums := coordNumber.FindAllString(s, -1)
	if len(nums) != 6 {
		return geometry.Box{}, fmt.Errorf("%w: %q", ErrBadCoordinates, s)
	}
	vals := make([]float64, 6)
	for i, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return geometry.Box{}, fmt.Errorf("%w: %q", ErrBadCoordinates, s)
		}
		vals[i] = v
	}
	b := geometry.Box{
		Min: geometry.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
		Max: geometry.Vec{X: vals[3], Y: vals[4], Z: vals[5]},
	}
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
		return geometry.Box{}, fmt.Errorf("%w: degenerate box %q", ErrBadCoordinates, s)
	}
	return b, nil
}
