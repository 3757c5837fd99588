package planner

import (
	"sort"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
)

// ClassifyWaste scans the catalog and returns the manifest entries for
// items that are expired (expiry ≤ clock) or out of uses (usage limit 0).
// Expiry wins when both apply. Container and position come from the active
// placement when one exists.
func (pl *Planner) ClassifyWaste(w *stowage.World, clock time.Time) []stowage.WasteEntry {
	var out []stowage.WasteEntry
	for _, it := range w.Items {
		var reason stowage.WasteReason
		switch {
		case it.Expiry != nil && !it.Expiry.After(clock):
			reason = stowage.WasteExpired
		case it.UsageLimit != nil && *it.UsageLimit == 0:
			reason = stowage.WasteOutOfUses
		default:
			continue
		}

		entry := stowage.WasteEntry{ItemID: it.ID, Name: it.Name, Reason: reason}
		if p, ok := w.Placements[it.ID]; ok {
			entry.ContainerID = p.ContainerID
			entry.Position = stowage.FormatCoordinates(p.Box())
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}
