// Package occupancy maintains the per-container spatial index the planners
// query for free/occupied space. The index tracks boxes, not subdivision
// nodes: a cell only routes lookups, the authoritative geometry is always
// the placed box itself.
package occupancy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Tusker13-04/interstellar/internal/geometry"
)

var (
	// ErrOverlap indicates an insert into occupied space despite the free
	// check. It means the world snapshot is corrupt; callers must abort the
	// batch rather than continue.
	ErrOverlap = errors.New("overlap violation")

	// ErrOutOfBounds indicates a box escaping the container interior.
	ErrOutOfBounds = errors.New("box outside container")
)

// cellDivisor sets the default grid resolution: cells are ~1/8 of the
// smallest container dimension.
const cellDivisor = 8

type cellKey struct{ x, y, z int }

// Occupant pairs a placed box with its item id.
type Occupant struct {
	ItemID int64
	Box    geometry.Box
}

// Index is a uniform grid hash over one container's interior. Cells map to
// the ids of boxes touching them; is-free queries visit only the cells the
// query box covers. Not safe for concurrent use; the owning world snapshot
// serializes access.
type Index struct {
	interior geometry.Box
	cellSize float64

	cells map[cellKey]map[int64]struct{}
	boxes map[int64]geometry.Box
}

// NewIndex builds an empty index for a container interior.
func NewIndex(dims geometry.Dims) *Index {
	smallest := math.Min(dims.W, math.Min(dims.D, dims.H))
	cell := smallest / cellDivisor
	if cell <= 0 {
		cell = 1
	}
	return &Index{
		interior: geometry.NewBox(geometry.Vec{}, dims),
		cellSize: cell,
		cells:    make(map[cellKey]map[int64]struct{}),
		boxes:    make(map[int64]geometry.Box),
	}
}

// Len returns the number of placed boxes.
func (ix *Index) Len() int { return len(ix.boxes) }

// IsFree reports whether box lies inside the container and intersects no
// placed box.
func (ix *Index) IsFree(box geometry.Box) bool {
	if !geometry.Contains(ix.interior, box) {
		return false
	}
	for id := range ix.candidates(box) {
		if geometry.Overlap(box, ix.boxes[id]) {
			return false
		}
	}
	return true
}

// Insert records a placed box. Precondition: IsFree(box). A violation is a
// programmer error and fails loudly with ErrOverlap / ErrOutOfBounds.
func (ix *Index) Insert(box geometry.Box, itemID int64) error {
	if !geometry.Contains(ix.interior, box) {
		return fmt.Errorf("%w: item %d at %+v", ErrOutOfBounds, itemID, box.Min)
	}
	if _, dup := ix.boxes[itemID]; dup {
		return fmt.Errorf("%w: item %d already placed", ErrOverlap, itemID)
	}
	for id := range ix.candidates(box) {
		if geometry.Overlap(box, ix.boxes[id]) {
			return fmt.Errorf("%w: item %d collides with item %d", ErrOverlap, itemID, id)
		}
	}
	ix.boxes[itemID] = box
	ix.forEachCell(box, func(k cellKey) {
		set, ok := ix.cells[k]
		if !ok {
			set = make(map[int64]struct{})
			ix.cells[k] = set
		}
		set[itemID] = struct{}{}
	})
	return nil
}

// Remove deletes an item's box. Idempotent; removing an absent id is a
// no-op.
func (ix *Index) Remove(itemID int64) {
	box, ok := ix.boxes[itemID]
	if !ok {
		return
	}
	delete(ix.boxes, itemID)
	ix.forEachCell(box, func(k cellKey) {
		if set, ok := ix.cells[k]; ok {
			delete(set, itemID)
			if len(set) == 0 {
				delete(ix.cells, k)
			}
		}
	})
}

// Occupants returns all placed boxes ordered by item id.
func (ix *Index) Occupants() []Occupant {
	out := make([]Occupant, 0, len(ix.boxes))
	for id, b := range ix.boxes {
		out = append(out, Occupant{ItemID: id, Box: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Box returns the placed box for an item, if present.
func (ix *Index) Box(itemID int64) (geometry.Box, bool) {
	b, ok := ix.boxes[itemID]
	return b, ok
}

// Neighbors returns ids of boxes lying within distance r of box on every
// axis (L∞), ordered by item id. The box's own occupant, if inserted, is
// excluded by the caller passing its id as self (use a negative id to keep
// everything).
func (ix *Index) Neighbors(box geometry.Box, r float64, self int64) []int64 {
	grown := geometry.Box{
		Min: geometry.Vec{X: box.Min.X - r, Y: box.Min.Y - r, Z: box.Min.Z - r},
		Max: geometry.Vec{X: box.Max.X + r, Y: box.Max.Y + r, Z: box.Max.Z + r},
	}
	var out []int64
	for id := range ix.candidates(grown) {
		if id == self {
			continue
		}
		if geometry.AxisDistance(box, ix.boxes[id]) <= r {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// candidates collects the ids registered in the cells the box touches.
func (ix *Index) candidates(box geometry.Box) map[int64]struct{} {
	found := make(map[int64]struct{})
	ix.forEachCell(box, func(k cellKey) {
		for id := range ix.cells[k] {
			found[id] = struct{}{}
		}
	})
	return found
}

func (ix *Index) forEachCell(box geometry.Box, fn func(cellKey)) {
	x0 := int(math.Floor(box.Min.X / ix.cellSize))
	y0 := int(math.Floor(box.Min.Y / ix.cellSize))
	z0 := int(math.Floor(box.Min.Z / ix.cellSize))
	// Max is exclusive; nudge inward so a box ending exactly on a cell
	// boundary does not claim the next cell.
	x1 := int(math.Floor((box.Max.X - geometry.Epsilon) / ix.cellSize))
	y1 := int(math.Floor((box.Max.Y - geometry.Epsilon) / ix.cellSize))
	z1 := int(math.Floor((box.Max.Z - geometry.Epsilon) / ix.cellSize))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				fn(cellKey{x, y, z})
			}
		}
	}
}
