package planner

import (
	"fmt"
	"sort"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"go.uber.org/zap"
)

// PlanRetrieval computes the ordered steps to extract an item through its
// container's open face (y=0). Read-only: the plan is advice, the caller
// decides whether to execute it.
//
// An item B blocks the target T when B sits entirely between T and the open
// face (B.yMax ≤ T.yMin) and B's x and z extents overlap T's. Blockers come
// out closest-to-face first, higher stacks first, low priority before high.
func (pl *Planner) PlanRetrieval(w *stowage.World, itemID int64) ([]RetrievalStep, error) {
	target, ok := w.Placements[itemID]
	if !ok {
		return nil, fmt.Errorf("item %d has no active placement: %w", itemID, ErrNotFound)
	}
	c, ok := w.Containers[target.ContainerID]
	if !ok {
		return nil, fmt.Errorf("container %q: %w", target.ContainerID, ErrNotFound)
	}

	ix, err := indexFor(w, c)
	if err != nil {
		return nil, err
	}

	tBox := target.Box()
	// The extraction corridor runs from the open face to the target's near
	// face; only items inside it can block. The index prefilters by
	// corridor overlap, the exact predicate decides.
	corridor := geometry.Box{
		Min: geometry.Vec{X: tBox.Min.X, Y: 0, Z: tBox.Min.Z},
		Max: geometry.Vec{X: tBox.Max.X, Y: tBox.Min.Y + geometry.Epsilon, Z: tBox.Max.Z},
	}

	var blockers []stowage.Placement
	for _, id := range ix.Neighbors(corridor, 0, itemID) {
		b := w.Placements[id]
		bBox := b.Box()
		if bBox.Max.Y > tBox.Min.Y+geometry.Epsilon {
			continue // straddles the corridor mouth; not fully in front
		}
		if !geometry.SpansOverlap(bBox.Min.X, bBox.Max.X, tBox.Min.X, tBox.Max.X) {
			continue
		}
		if !geometry.SpansOverlap(bBox.Min.Z, bBox.Max.Z, tBox.Min.Z, tBox.Max.Z) {
			continue
		}
		blockers = append(blockers, b)
	}

	sort.Slice(blockers, func(i, j int) bool {
		a, b := blockers[i].Box(), blockers[j].Box()
		if a.Max.Y != b.Max.Y {
			return a.Max.Y > b.Max.Y
		}
		if a.Max.Z != b.Max.Z {
			return a.Max.Z > b.Max.Z
		}
		pi, pj := w.Items[blockers[i].ItemID].Priority, w.Items[blockers[j].ItemID].Priority
		if pi != pj {
			return pi < pj
		}
		return blockers[i].ItemID < blockers[j].ItemID
	})

	steps := make([]RetrievalStep, 0, 2*len(blockers)+1)
	for _, b := range blockers {
		steps = append(steps, RetrievalStep{
			Step:     len(steps) + 1,
			Action:   ActionMoveAside,
			ItemID:   b.ItemID,
			ItemName: w.Items[b.ItemID].Name,
		})
	}
	steps = append(steps, RetrievalStep{
		Step:     len(steps) + 1,
		Action:   ActionExtract,
		ItemID:   itemID,
		ItemName: w.Items[itemID].Name,
	})
	for i := len(blockers) - 1; i >= 0; i-- {
		b := blockers[i]
		steps = append(steps, RetrievalStep{
			Step:     len(steps) + 1,
			Action:   ActionReplace,
			ItemID:   b.ItemID,
			ItemName: w.Items[b.ItemID].Name,
		})
	}

	pl.log.Debug("retrieval planned",
		zap.Int64("item", itemID),
		zap.String("container", target.ContainerID),
		zap.Int("blockers", len(blockers)))
	return steps, nil
}
