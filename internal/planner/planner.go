// Package planner implements the geometric planning engine: batch and
// single placement, retrieval sequencing, rearrangement, and waste
// classification. Planners are purely functional over a world snapshot;
// they never perform I/O and never mutate the caller's world.
package planner

import (
	"errors"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
)

var (
	// ErrNotFound reports a target item or container missing from the world.
	ErrNotFound = errors.New("not found")

	// ErrOverlap re-exports the fatal occupancy violation; a batch hitting
	// it must be aborted by the caller.
	ErrOverlap = occupancy.ErrOverlap

	// ErrNoFit reports an exhausted candidate search for a single item.
	ErrNoFit = errors.New("no fit")
)

// Unplaced reasons surfaced per item.
const (
	ReasonNoContainersInZone = "no-containers-in-zone"
	ReasonNoFit              = "no-fit"
	ReasonAborted            = "aborted"
	ReasonInvalidInput       = "invalid-input"
)

// Options carries the empirical tunables of the placement heuristics.
type Options struct {
	// FillThreshold skips containers whose used/total volume ratio exceeds
	// it (pack-efficiency guard).
	FillThreshold float64
	// SmallItemRatio flags an item small when its volume is below this
	// fraction of the zone's mean container volume.
	SmallItemRatio float64
	// CostThreshold bounds the total rearrangement cost of an accepted plan.
	CostThreshold float64
}

// DefaultOptions returns the stock tunables.
func DefaultOptions() Options {
	return Options{FillThreshold: 0.85, SmallItemRatio: 0.3, CostThreshold: 100.0}
}

// Unplaced records an item the planner could not place and why.
type Unplaced struct {
	ItemID int64  `json:"itemId"`
	Reason string `json:"reason"`
}

// RetrievalAction enumerates the step kinds of a retrieval plan.
type RetrievalAction string

const (
	ActionMoveAside RetrievalAction = "move-aside"
	ActionExtract   RetrievalAction = "extract"
	ActionReplace   RetrievalAction = "replace"
)

// RetrievalStep is one entry of an ordered retrieval plan.
type RetrievalStep struct {
	Step     int             `json:"step"`
	Action   RetrievalAction `json:"action"`
	ItemID   int64           `json:"itemId"`
	ItemName string          `json:"itemName"`
}

// MoveKind distinguishes staging moves from settled ones.
type MoveKind string

const (
	MoveTemporary MoveKind = "temporary"
	MoveFinal     MoveKind = "final"
)

// Move is one relocation in a rearrangement plan.
type Move struct {
	ItemID        int64        `json:"itemId"`
	FromContainer string       `json:"fromContainer"`
	FromPosition  geometry.Vec `json:"fromPosition"`
	ToContainer   string       `json:"toContainer"`
	ToPosition    geometry.Vec `json:"toPosition"`
	Kind          MoveKind     `json:"kind"`
}

// indexFor builds an occupancy index over a container's current placements.
// A placement that fails to insert indicates a corrupt world and is
// reported as ErrOverlap.
func indexFor(w *stowage.World, c stowage.Container) (*occupancy.Index, error) {
	ix := occupancy.NewIndex(c.Dims)
	for _, p := range w.PlacementsIn(c.ID) {
		if err := ix.Insert(p.Box(), p.ItemID); err != nil {
			return nil, err
		}
	}
	return ix, nil
}
