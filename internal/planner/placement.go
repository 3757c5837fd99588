package planner

import (
	"context"
	"fmt"
	"sort"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
	"go.uber.org/zap"
)

// Planner runs the placement heuristics over world snapshots.
type Planner struct {
	log  *zap.Logger
	opts Options
}

// New builds a planner with the given tunables.
func New(log *zap.Logger, opts Options) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{log: log.Named("planner"), opts: opts}
}

// PlacementResult is the outcome of a batch placement run. Moved holds the
// end-state placements of items relocated by rearrangement so the adapter
// can apply the whole diff atomically.
type PlacementResult struct {
	Placements     []stowage.Placement `json:"placements"`
	Unplaced       []Unplaced          `json:"unplaced"`
	Rearrangements []Move              `json:"rearrangements"`
	Moved          []stowage.Placement `json:"moved,omitempty"`
}

// PlanPlacements decides positions for a batch of items against the world
// snapshot. The world is cloned; the caller's snapshot is never touched.
// Items are processed in (priority desc, volume desc, id asc) order; the
// context is checked between items and, on cancellation, the remainder is
// reported unplaced with reason "aborted". A detected occupancy corruption
// aborts the whole batch with ErrOverlap.
func (pl *Planner) PlanPlacements(ctx context.Context, world *stowage.World, items []stowage.Item) (*PlacementResult, error) {
	w := world.Clone()
	res := &PlacementResult{}

	ordered := make([]stowage.Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if av, bv := a.Volume(), b.Volume(); av != bv {
			return av > bv
		}
		return a.ID < b.ID
	})

	indexes := make(map[string]*occupancy.Index)

	for i, item := range ordered {
		if ctx.Err() != nil {
			for _, rest := range ordered[i:] {
				res.Unplaced = append(res.Unplaced, Unplaced{ItemID: rest.ID, Reason: ReasonAborted})
			}
			pl.log.Warn("placement batch aborted",
				zap.Int("placed", len(res.Placements)),
				zap.Int("unplaced", len(res.Unplaced)))
			return res, nil
		}

		if err := item.Validate(); err != nil {
			res.Unplaced = append(res.Unplaced, Unplaced{ItemID: item.ID, Reason: ReasonInvalidInput})
			continue
		}
		w.Items[item.ID] = item

		p, reason, err := pl.placeOne(w, indexes, item)
		if err != nil {
			return nil, err
		}
		if p != nil {
			res.Placements = append(res.Placements, *p)
			continue
		}
		if reason != ReasonNoFit {
			res.Unplaced = append(res.Unplaced, Unplaced{ItemID: item.ID, Reason: reason})
			continue
		}

		// Direct placement exhausted; see whether shuffling low-priority
		// cargo frees a spot.
		moves, final, ok, err := pl.rearrange(w, indexes, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Unplaced = append(res.Unplaced, Unplaced{ItemID: item.ID, Reason: ReasonNoFit})
			continue
		}
		res.Rearrangements = append(res.Rearrangements, moves...)
		moved := map[int64]bool{}
		for _, m := range moves {
			if !moved[m.ItemID] {
				moved[m.ItemID] = true
				res.Moved = append(res.Moved, w.Placements[m.ItemID])
			}
		}
		res.Placements = append(res.Placements, *final)
	}

	pl.log.Info("placement batch planned",
		zap.Int("placed", len(res.Placements)),
		zap.Int("unplaced", len(res.Unplaced)),
		zap.Int("moves", len(res.Rearrangements)))
	return res, nil
}

// placeOne finds and commits the best position for one item. Returns a nil
// placement with an unplaced reason when no container admits it.
func (pl *Planner) placeOne(w *stowage.World, indexes map[string]*occupancy.Index, item stowage.Item) (*stowage.Placement, string, error) {
	zone := w.ContainersInZone(item.PreferredZone)
	if len(zone) == 0 {
		return nil, ReasonNoContainersInZone, nil
	}

	ordered := pl.orderContainers(zone, item)

	for _, c := range ordered {
		if ratio := w.UsedVolume(c.ID) / c.Dims.Volume(); ratio > pl.opts.FillThreshold {
			continue
		}
		ix, err := pl.indexOf(w, indexes, c)
		if err != nil {
			return nil, "", err
		}
		best, found := pl.bestPosition(ix, c, item.Dims)
		if !found {
			continue
		}
		p := stowage.Placement{
			ItemID:        item.ID,
			ContainerID:   c.ID,
			Orientation:   best.orientation,
			MinCorner:     best.pos,
			EffectiveDims: best.dims,
		}
		if err := pl.commit(w, ix, p); err != nil {
			return nil, "", err
		}
		return &p, "", nil
	}
	return nil, ReasonNoFit, nil
}

// orderContainers sorts a zone's containers for one item: ascending volume
// for small items so they fill small containers first, descending for bulky
// ones so large containers are not fragmented. Ties break on id.
func (pl *Planner) orderContainers(zone []stowage.Container, item stowage.Item) []stowage.Container {
	var total float64
	for _, c := range zone {
		total += c.Dims.Volume()
	}
	mean := total / float64(len(zone))
	small := item.Volume() < pl.opts.SmallItemRatio*mean

	ordered := make([]stowage.Container, len(zone))
	copy(ordered, zone)
	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := ordered[i].Dims.Volume(), ordered[j].Dims.Volume()
		if vi != vj {
			if small {
				return vi < vj
			}
			return vi > vj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

type scoredPosition struct {
	pos         geometry.Vec
	dims        geometry.Dims
	orientation geometry.Orientation
	waste       float64
}

// bestPosition scans all fitting orientations and extreme-point candidates
// inside one container and returns the minimum-waste position. A position
// under the early-exit waste is taken on the spot.
func (pl *Planner) bestPosition(ix *occupancy.Index, c stowage.Container, catalog geometry.Dims) (scoredPosition, bool) {
	occupants := ix.Occupants()
	best := scoredPosition{waste: -1}

	for _, od := range geometry.Orientations(catalog) {
		if !od.Dims.Fits(c.Dims) {
			continue
		}
		for _, pos := range candidatePositions(od.Dims, c.Dims, occupants) {
			box := geometry.NewBox(pos, od.Dims)
			if !ix.IsFree(box) {
				continue
			}
			waste := positionWaste(box, c.Dims, occupants)
			if waste < earlyExitWaste {
				return scoredPosition{pos: pos, dims: od.Dims, orientation: od.Orientation, waste: waste}, true
			}
			if best.waste < 0 || waste < best.waste {
				best = scoredPosition{pos: pos, dims: od.Dims, orientation: od.Orientation, waste: waste}
			}
		}
	}
	return best, best.waste >= 0
}

// PlanSingle places one catalog item into a specific container, honoring a
// requested box when given. Mirrors the manual /api/place flow: without a
// requested box, when the named container cannot take the item, the
// smallest fitting container in the same zone is substituted. A requested
// box is checked in the named container only.
func (pl *Planner) PlanSingle(world *stowage.World, itemID int64, containerID string, requested *geometry.Box) (stowage.Placement, error) {
	w := world.Clone()

	item, ok := w.Items[itemID]
	if !ok {
		return stowage.Placement{}, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	target, ok := w.Containers[containerID]
	if !ok {
		return stowage.Placement{}, fmt.Errorf("container %q: %w", containerID, ErrNotFound)
	}

	// Prior placement does not count against the item's own move.
	delete(w.Placements, itemID)

	if requested != nil {
		return pl.planRequested(w, item, target, *requested)
	}

	// The requested container first, then the rest of the zone from the
	// smallest up; the first one with a free position wins.
	zone := w.ContainersInZone(target.Zone)
	sort.Slice(zone, func(i, j int) bool {
		if ti, tj := zone[i].ID == target.ID, zone[j].ID == target.ID; ti != tj {
			return ti
		}
		vi, vj := zone[i].Dims.Volume(), zone[j].Dims.Volume()
		if vi != vj {
			return vi < vj
		}
		return zone[i].ID < zone[j].ID
	})
	for _, c := range zone {
		if !fitsAnyOrientation(item.Dims, c.Dims) {
			continue
		}
		ix, err := indexFor(w, c)
		if err != nil {
			return stowage.Placement{}, err
		}
		if best, found := pl.bestPosition(ix, c, item.Dims); found {
			if c.ID != target.ID {
				pl.log.Info("substituting container for manual place",
					zap.Int64("item", item.ID),
					zap.String("requested", target.ID),
					zap.String("chosen", c.ID))
			}
			return stowage.Placement{
				ItemID:        item.ID,
				ContainerID:   c.ID,
				Orientation:   best.orientation,
				MinCorner:     best.pos,
				EffectiveDims: best.dims,
			}, nil
		}
	}
	return stowage.Placement{}, fmt.Errorf("item %d in zone %q: %w", item.ID, target.Zone, ErrNoFit)
}

// planRequested validates an operator-chosen box: dims must permute the
// catalog dims, the box must sit inside the container, and the space must
// be free.
func (pl *Planner) planRequested(w *stowage.World, item stowage.Item, c stowage.Container, box geometry.Box) (stowage.Placement, error) {
	dims := box.Dims()
	if !geometry.IsPermutation(item.Dims, dims) {
		return stowage.Placement{}, fmt.Errorf("%w: requested box %v is not an orientation of item %d",
			stowage.ErrInvalidInput, dims, item.ID)
	}
	ix, err := indexFor(w, c)
	if err != nil {
		return stowage.Placement{}, err
	}
	if !ix.IsFree(box) {
		return stowage.Placement{}, fmt.Errorf("item %d at %v in %q: %w", item.ID, box.Min, c.ID, ErrNoFit)
	}
	orientation := geometry.OrientationOf(item.Dims, dims)
	return stowage.Placement{
		ItemID:        item.ID,
		ContainerID:   c.ID,
		Orientation:   orientation,
		MinCorner:     box.Min,
		EffectiveDims: dims,
	}, nil
}

// commit inserts a placement into both the scratch world and its index.
func (pl *Planner) commit(w *stowage.World, ix *occupancy.Index, p stowage.Placement) error {
	if err := ix.Insert(p.Box(), p.ItemID); err != nil {
		return err
	}
	w.Placements[p.ItemID] = p
	return nil
}

func (pl *Planner) indexOf(w *stowage.World, indexes map[string]*occupancy.Index, c stowage.Container) (*occupancy.Index, error) {
	if ix, ok := indexes[c.ID]; ok {
		return ix, nil
	}
	ix, err := indexFor(w, c)
	if err != nil {
		return nil, err
	}
	indexes[c.ID] = ix
	return ix, nil
}

func fitsAnyOrientation(d, container geometry.Dims) bool {
	for _, od := range geometry.Orientations(d) {
		if od.Dims.Fits(container) {
			return true
		}
	}
	return false
}
