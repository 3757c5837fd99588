package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
)

var containerHeader = []string{"containerId", "zone", "width", "depth", "height"}

// ReadContainers parses a container catalog CSV. Container ids stay opaque
// strings; only dimensions are validated.
func ReadContainers(r io.Reader) ([]stowage.Container, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, containerHeader); err != nil {
		return nil, err
	}

	var out []stowage.Container
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: %w: %d columns", line, stowage.ErrInvalidInput, len(rec))
		}

		var dims [3]float64
		for i, field := range []string{"width", "depth", "height"} {
			if dims[i], err = parseFloat(field, rec[2+i]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		c := stowage.Container{
			ID:   strings.TrimSpace(rec[0]),
			Zone: strings.TrimSpace(rec[1]),
			Dims: geometry.Dims{W: dims[0], D: dims[1], H: dims[2]},
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteContainers emits the container catalog.
func WriteContainers(w io.Writer, containers []stowage.Container) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(containerHeader); err != nil {
		return err
	}
	for _, c := range containers {
		rec := []string{c.ID, c.Zone, formatDim(c.Dims.W), formatDim(c.Dims.D), formatDim(c.Dims.H)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
