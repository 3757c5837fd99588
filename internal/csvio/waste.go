package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
)

var wasteHeader = []string{"itemId", "name", "reason", "containerId", "position"}

// WriteWaste renders the waste manifest.
func WriteWaste(w io.Writer, entries []stowage.WasteEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(wasteHeader); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			strconv.FormatInt(e.ItemID, 10),
			e.Name,
			string(e.Reason),
			e.ContainerID,
			e.Position,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
