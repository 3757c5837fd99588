package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
)

var itemHeader = []string{"itemId", "name", "width", "depth", "height", "mass", "priority", "preferredZone", "expiryDate", "usageLimit"}

// expiry dates arrive either as bare dates or full RFC 3339 stamps.
var expiryLayouts = []string{time.RFC3339, "2006-01-02"}

// ReadItems parses an item catalog CSV. Every row is validated; the first
// bad row fails the whole import so a half-loaded catalog never goes live.
func ReadItems(r io.Reader) ([]stowage.Item, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, itemHeader[:8]); err != nil {
		return nil, err
	}

	var items []stowage.Item
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		it, err := parseItemRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func parseItemRecord(rec []string) (stowage.Item, error) {
	if len(rec) < 8 {
		return stowage.Item{}, fmt.Errorf("%w: %d columns", stowage.ErrInvalidInput, len(rec))
	}

	id, err := stowage.ParseItemID(rec[0])
	if err != nil {
		return stowage.Item{}, err
	}

	var dims [3]float64
	for i, field := range []string{"width", "depth", "height"} {
		if dims[i], err = parseFloat(field, rec[2+i]); err != nil {
			return stowage.Item{}, err
		}
	}
	mass, err := parseFloat("mass", rec[5])
	if err != nil {
		return stowage.Item{}, err
	}
	priority, err := parseInt("priority", rec[6])
	if err != nil {
		return stowage.Item{}, err
	}

	it := stowage.Item{
		ID:            id,
		Name:          strings.TrimSpace(rec[1]),
		Dims:          geometry.Dims{W: dims[0], D: dims[1], H: dims[2]},
		Mass:          mass,
		Priority:      priority,
		PreferredZone: strings.TrimSpace(rec[7]),
	}

	if len(rec) > 8 && strings.TrimSpace(rec[8]) != "" {
		exp, err := parseExpiry(rec[8])
		if err != nil {
			return stowage.Item{}, err
		}
		it.Expiry = &exp
	}
	if len(rec) > 9 && strings.TrimSpace(rec[9]) != "" {
		limit, err := parseInt("usageLimit", rec[9])
		if err != nil {
			return stowage.Item{}, err
		}
		it.UsageLimit = &limit
	}

	if err := it.Validate(); err != nil {
		return stowage.Item{}, err
	}
	return it, nil
}

func parseExpiry(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range expiryLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expiry date %q", stowage.ErrInvalidInput, v)
}

// WriteItems emits the catalog back out, preserving the optional columns.
func WriteItems(w io.Writer, items []stowage.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(itemHeader); err != nil {
		return err
	}
	for _, it := range items {
		expiry := ""
		if it.Expiry != nil {
			expiry = it.Expiry.UTC().Format(time.RFC3339)
		}
		limit := ""
		if it.UsageLimit != nil {
			limit = strconv.Itoa(*it.UsageLimit)
		}
		rec := []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			formatDim(it.Dims.W),
			formatDim(it.Dims.D),
			formatDim(it.Dims.H),
			formatDim(it.Mass),
			strconv.Itoa(it.Priority),
			it.PreferredZone,
			expiry,
			limit,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
