package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
)

var logHeader = []string{"timestamp", "user_id", "action_type", "itemId", "details"}

// WriteLogs renders log rows with ISO-8601 UTC timestamps.
func WriteLogs(w io.Writer, entries []stowage.LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(logHeader); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			e.UserID,
			e.ActionType,
			strconv.FormatInt(e.ItemID, 10),
			e.Details,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadLogs parses a log CSV back into entries.
func ReadLogs(r io.Reader) ([]stowage.LogEntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, logHeader); err != nil {
		return nil, err
	}

	var out []stowage.LogEntry
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
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse timestamp: %w", line, err)
		}
		itemID, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse itemId: %w", line, err)
		}
		out = append(out, stowage.LogEntry{
			Timestamp:  ts.UTC(),
			UserID:     rec[1],
			ActionType: rec[2],
			ItemID:     itemID,
			Details:    rec[4],
		})
	}
	return out, nil
}
