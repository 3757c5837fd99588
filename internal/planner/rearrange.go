package planner

import (
	"math"
	"sort"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
	"go.uber.org/zap"
)

// ignoreSteps are the fractions of lowest-priority cargo the rearranger is
// allowed to pretend away while hunting for a target position.
var ignoreSteps = []float64{0.10, 0.20, 0.30, 0.40, 0.50}

// RearrangementResult is the outcome of a rearrangement attempt. Settled
// holds the displaced items' end-state placements (container, orientation,
// corner) so the adapter can commit the diff without re-deriving it.
type RearrangementResult struct {
	Moves   []Move              `json:"moves"`
	Settled []stowage.Placement `json:"settled,omitempty"`
	Final   *stowage.Placement  `json:"final,omitempty"`
	Success bool                `json:"success"`
	Cost    float64             `json:"cost"`
}

// PlanRearrangement tries to free space for an incoming item that could not
// be placed directly. The plan is all-or-nothing: on failure no mutation is
// implied and the item stays unplaced.
func (pl *Planner) PlanRearrangement(world *stowage.World, item stowage.Item) (*RearrangementResult, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	w := world.Clone()
	w.Items[item.ID] = item
	moves, final, ok, err := pl.rearrange(w, make(map[string]*occupancy.Index), item)
	if err != nil {
		return nil, err
	}
	res := &RearrangementResult{Moves: moves, Final: final, Success: ok}
	seen := map[int64]bool{}
	for _, m := range moves {
		res.Cost += pl.moveCost(w, m)
		if !seen[m.ItemID] {
			seen[m.ItemID] = true
			res.Settled = append(res.Settled, w.Placements[m.ItemID])
		}
	}
	return res, nil
}

// rearrange searches for a move sequence that admits the incoming item.
// On success the mutations are applied to w and the affected container
// indexes are invalidated.
func (pl *Planner) rearrange(w *stowage.World, indexes map[string]*occupancy.Index, item stowage.Item) ([]Move, *stowage.Placement, bool, error) {
	zone := w.ContainersInZone(item.PreferredZone)
	if len(zone) == 0 {
		return nil, nil, false, nil
	}

	// Zone placements ordered lowest priority first; these are the movable
	// candidates.
	var placed []stowage.Placement
	for _, c := range zone {
		placed = append(placed, w.PlacementsIn(c.ID)...)
	}
	sort.Slice(placed, func(i, j int) bool {
		pi, pj := w.Items[placed[i].ItemID].Priority, w.Items[placed[j].ItemID].Priority
		if pi != pj {
			return pi < pj
		}
		return placed[i].ItemID < placed[j].ItemID
	})
	if len(placed) == 0 {
		return nil, nil, false, nil
	}

	for _, frac := range ignoreSteps {
		n := int(math.Ceil(frac * float64(len(placed))))
		if n == 0 {
			n = 1
		}
		if n > len(placed) {
			n = len(placed)
		}
		ignored := placed[:n]

		moves, settled, final, ok, err := pl.tryIgnoring(w, item, ignored)
		if err != nil {
			return nil, nil, false, err
		}
		if !ok {
			continue
		}

		// Apply to the live scratch world and drop stale indexes.
		touched := map[string]struct{}{final.ContainerID: {}}
		for _, m := range moves {
			touched[m.FromContainer] = struct{}{}
			touched[m.ToContainer] = struct{}{}
		}
		for id, p := range settled {
			w.Placements[id] = p
		}
		w.Placements[final.ItemID] = *final
		for cid := range touched {
			delete(indexes, cid)
		}

		pl.log.Info("rearrangement planned",
			zap.Int64("incoming", item.ID),
			zap.Int("moves", len(moves)))
		return moves, final, true, nil
	}
	return nil, nil, false, nil
}

// tryIgnoring attempts a full plan with the given placements treated as
// movable. Everything runs on clones; nothing is applied on failure. The
// settled map carries the displaced items' end-state placements (container,
// orientation, corner) for atomic application by the caller.
func (pl *Planner) tryIgnoring(w *stowage.World, item stowage.Item, ignored []stowage.Placement) ([]Move, map[int64]stowage.Placement, *stowage.Placement, bool, error) {
	probe := w.Clone()
	for _, p := range ignored {
		delete(probe.Placements, p.ItemID)
	}

	target, reason, err := pl.placeOne(probe, make(map[string]*occupancy.Index), item)
	if err != nil {
		return nil, nil, nil, false, err
	}
	if target == nil || reason != "" {
		return nil, nil, nil, false, nil
	}
	targetBox := target.Box()

	// Only the ignored placements actually inside the target corridor are
	// displaced; the rest stay put.
	var displaced []stowage.Placement
	for _, p := range ignored {
		if p.ContainerID == target.ContainerID && geometry.Overlap(p.Box(), targetBox) {
			displaced = append(displaced, p)
		}
	}

	// Rebuild: same world minus displaced, with the incoming committed at
	// its target.
	scratch := w.Clone()
	for _, p := range displaced {
		delete(scratch.Placements, p.ItemID)
	}
	indexes := make(map[string]*occupancy.Index)
	c := scratch.Containers[target.ContainerID]
	ix, err := pl.indexOf(scratch, indexes, c)
	if err != nil {
		return nil, nil, nil, false, err
	}
	if err := pl.commit(scratch, ix, *target); err != nil {
		// The target came from a probe world; collision here means the
		// corridor filter missed something and the plan is void.
		return nil, nil, nil, false, nil
	}

	var moves []Move
	var pendingFinal []stowage.Placement

	sort.Slice(displaced, func(i, j int) bool {
		pi, pj := w.Items[displaced[i].ItemID].Priority, w.Items[displaced[j].ItemID].Priority
		if pi != pj {
			return pi < pj
		}
		return displaced[i].ItemID < displaced[j].ItemID
	})

	for _, old := range displaced {
		moved := w.Items[old.ItemID]
		// Items never leave their zone; rehome within the zone of the
		// container they came from.
		moved.PreferredZone = w.Containers[old.ContainerID].Zone

		repl, _, err := pl.placeOne(scratch, indexes, moved)
		if err != nil {
			return nil, nil, nil, false, err
		}
		if repl != nil {
			moves = append(moves, Move{
				ItemID:        old.ItemID,
				FromContainer: old.ContainerID,
				FromPosition:  old.MinCorner,
				ToContainer:   repl.ContainerID,
				ToPosition:    repl.MinCorner,
				Kind:          MoveFinal,
			})
			continue
		}

		// No settled spot yet; stage it anywhere free in the zone and
		// retry once the rest has settled.
		tmp, err := pl.anyFreeSpot(scratch, indexes, moved)
		if err != nil {
			return nil, nil, nil, false, err
		}
		if tmp == nil {
			return nil, nil, nil, false, nil
		}
		if err := pl.commit(scratch, indexes[tmp.ContainerID], *tmp); err != nil {
			return nil, nil, nil, false, err
		}
		scratch.Placements[tmp.ItemID] = *tmp
		moves = append(moves, Move{
			ItemID:        old.ItemID,
			FromContainer: old.ContainerID,
			FromPosition:  old.MinCorner,
			ToContainer:   tmp.ContainerID,
			ToPosition:    tmp.MinCorner,
			Kind:          MoveTemporary,
		})
		pendingFinal = append(pendingFinal, *tmp)
	}

	// Settle staged items now that higher-priority work is in place.
	for _, tmp := range pendingFinal {
		moved := w.Items[tmp.ItemID]
		moved.PreferredZone = scratch.Containers[tmp.ContainerID].Zone
		delete(scratch.Placements, tmp.ItemID)
		delete(indexes, tmp.ContainerID)

		repl, _, err := pl.placeOne(scratch, indexes, moved)
		if err != nil {
			return nil, nil, nil, false, err
		}
		if repl == nil {
			// Stays at its staging spot; the temporary move becomes its
			// resting place.
			scratch.Placements[tmp.ItemID] = tmp
			delete(indexes, tmp.ContainerID)
			continue
		}
		moves = append(moves, Move{
			ItemID:        tmp.ItemID,
			FromContainer: tmp.ContainerID,
			FromPosition:  tmp.MinCorner,
			ToContainer:   repl.ContainerID,
			ToPosition:    repl.MinCorner,
			Kind:          MoveFinal,
		})
	}

	var cost float64
	for _, m := range moves {
		cost += pl.moveCost(w, m)
	}
	if cost > pl.opts.CostThreshold {
		pl.log.Debug("rearrangement rejected by cost gate",
			zap.Float64("cost", cost),
			zap.Float64("threshold", pl.opts.CostThreshold))
		return nil, nil, nil, false, nil
	}
	settled := make(map[int64]stowage.Placement, len(displaced))
	for _, old := range displaced {
		settled[old.ItemID] = scratch.Placements[old.ItemID]
	}
	return moves, settled, target, true, nil
}

// anyFreeSpot returns the first free placement for the item anywhere in its
// zone, without scoring. Used for staging moves only.
func (pl *Planner) anyFreeSpot(w *stowage.World, indexes map[string]*occupancy.Index, item stowage.Item) (*stowage.Placement, error) {
	for _, c := range w.ContainersInZone(item.PreferredZone) {
		ix, err := pl.indexOf(w, indexes, c)
		if err != nil {
			return nil, err
		}
		occupants := ix.Occupants()
		for _, od := range geometry.Orientations(item.Dims) {
			if !od.Dims.Fits(c.Dims) {
				continue
			}
			for _, pos := range candidatePositions(od.Dims, c.Dims, occupants) {
				if ix.IsFree(geometry.NewBox(pos, od.Dims)) {
					return &stowage.Placement{
						ItemID:        item.ID,
						ContainerID:   c.ID,
						Orientation:   od.Orientation,
						MinCorner:     pos,
						EffectiveDims: od.Dims,
					}, nil
				}
			}
		}
	}
	return nil, nil
}

// moveCost prices one move: Euclidean corner distance scaled up for
// high-priority cargo, so disturbing critical items for marginal gains
// fails the gate.
func (pl *Planner) moveCost(w *stowage.World, m Move) float64 {
	dx := m.ToPosition.X - m.FromPosition.X
	dy := m.ToPosition.Y - m.FromPosition.Y
	dz := m.ToPosition.Z - m.FromPosition.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	prio := float64(w.Items[m.ItemID].Priority)
	return dist * (1 + prio/100)
}
