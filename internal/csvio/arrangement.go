package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
)

var arrangementHeader = []string{"itemId", "zone", "containerId", "coordinates"}

// ArrangementRow is one line of cargo_arrangement.csv.
type ArrangementRow struct {
	ItemID      int64
	Zone        string
	ContainerID string
	Box         geometry.Box
}

// ReadArrangement parses a cargo arrangement CSV into rows; coordinate
// literals are decoded into boxes.
func ReadArrangement(r io.Reader) ([]ArrangementRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, arrangementHeader); err != nil {
		return nil, err
	}

	var out []ArrangementRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("line %d: %w: %d columns", line, stowage.ErrInvalidInput, len(rec))
		}
		id, err := stowage.ParseItemID(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		box, err := stowage.ParseCoordinates(rec[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, ArrangementRow{
			ItemID:      id,
			Zone:        strings.TrimSpace(rec[1]),
			ContainerID: strings.TrimSpace(rec[2]),
			Box:         box,
		})
	}
	return out, nil
}

// WriteArrangement renders the world's active placements as the
// arrangement CSV, ordered by item id.
func WriteArrangement(w io.Writer, world *stowage.World) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(arrangementHeader); err != nil {
		return err
	}

	ids := make([]int64, 0, len(world.Placements))
	for id := range world.Placements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := world.Placements[id]
		zone := ""
		if c, ok := world.Containers[p.ContainerID]; ok {
			zone = c.Zone
		}
		rec := []string{
			strconv.FormatInt(p.ItemID, 10),
			zone,
			p.ContainerID,
			stowage.FormatCoordinates(p.Box()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
