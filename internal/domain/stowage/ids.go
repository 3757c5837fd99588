package stowage

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadItemID is returned when an item identifier cannot be normalized to
// an integer.
var ErrBadItemID = errors.New("invalid item id")

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// ParseItemID normalizes an item identifier. Integers pass through; for a
// string the trailing run of digits is extracted ("test-item-12" → 12), and
// failing that an integer parse of the whole string is attempted.
// Containers use opaque string ids and get no such treatment.
func ParseItemID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadItemID)
	}
	if m := trailingDigits.FindString(raw); m != "" {
		id, err := strconv.ParseInt(m, 10, 64)
		if err == nil {
			return id, nil
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadItemID, raw)
	}
	return id, nil
}

// ItemID accepts either a JSON number or a string form of an item
// identifier and normalizes it via ParseItemID.
type ItemID int64

func (id *ItemID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return fmt.Errorf("%w: null", ErrBadItemID)
	}
	if len(s) > 1 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := ParseItemID(str)
		if err != nil {
			return err
		}
		*id = ItemID(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrBadItemID, s)
	}
	*id = ItemID(n)
	return nil
}

func (id ItemID) Int64() int64 { return int64(id) }
