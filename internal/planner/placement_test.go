package planner

import (
	"context"
	"reflect"
	"testing"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner() *Planner { return New(nil, DefaultOptions()) }

func worldWith(containers ...stowage.Container) *stowage.World {
	w := stowage.NewWorld()
	for _, c := range containers {
		w.Containers[c.ID] = c
	}
	return w
}

func item(id int64, w, d, h float64, prio int, zone string) stowage.Item {
	return stowage.Item{
		ID:            id,
		Name:          "item",
		Dims:          geometry.Dims{W: w, D: d, H: h},
		Priority:      prio,
		PreferredZone: zone,
	}
}

func TestEmptyContainerSingleItem(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 2, 3, 4, 50, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	require.Empty(t, res.Unplaced)

	p := res.Placements[0]
	assert.Equal(t, "C1", p.ContainerID)
	assert.Equal(t, geometry.Vec{}, p.MinCorner)
	assert.Equal(t, geometry.Dims{W: 2, D: 3, H: 4}, p.EffectiveDims)
	assert.Equal(t, geometry.OrientWDH, p.Orientation)
}

func TestTwoItemsStacking(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{
		item(1, 2, 3, 4, 50, "Z"),
		item(2, 2, 3, 4, 50, "Z"),
	})
	require.NoError(t, err)
	require.Len(t, res.Placements, 2)

	// Second item hugs the first along x: zero z-penalty and full contact.
	assert.Equal(t, geometry.Vec{X: 2, Y: 0, Z: 0}, res.Placements[1].MinCorner)
}

func TestRotationImpossibleNoFit(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 5, D: 5, H: 5}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 6, 2, 2, 50, "Z")})
	require.NoError(t, err)
	assert.Empty(t, res.Placements)
	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, ReasonNoFit, res.Unplaced[0].Reason)
}

func TestRotationRequired(t *testing.T) {
	// Tall slot: only the height axis can take the long edge.
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 3, D: 3, H: 8}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 6, 2, 2, 50, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	p := res.Placements[0]
	assert.Equal(t, 6.0, p.EffectiveDims.H)
	assert.True(t, geometry.IsPermutation(geometry.Dims{W: 6, D: 2, H: 2}, p.EffectiveDims))
}

func TestPriorityWinsScarceSpace(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 1, D: 1, H: 1}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{
		item(1, 1, 1, 1, 10, "Z"), // A
		item(2, 1, 1, 1, 90, "Z"), // B
	})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, int64(2), res.Placements[0].ItemID, "high priority gets the space")
	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, int64(1), res.Unplaced[0].ItemID)
	assert.Equal(t, ReasonNoFit, res.Unplaced[0].Reason)
}

func TestNoContainersInZone(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 1, 1, 1, 50, "Elsewhere")})
	require.NoError(t, err)
	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, ReasonNoContainersInZone, res.Unplaced[0].Reason)
}

func TestInvalidInputSurfaced(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})
	bad := item(1, 0, 1, 1, 50, "Z")

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{bad})
	require.NoError(t, err)
	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, ReasonInvalidInput, res.Unplaced[0].Reason)
}

func TestAbortBetweenItems(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 100, D: 100, H: 100}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newPlanner().PlanPlacements(ctx, w, []stowage.Item{
		item(1, 1, 1, 1, 50, "Z"),
		item(2, 1, 1, 1, 40, "Z"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Placements)
	require.Len(t, res.Unplaced, 2)
	for _, u := range res.Unplaced {
		assert.Equal(t, ReasonAborted, u.Reason)
	}
}

func TestSmallItemsPreferSmallContainers(t *testing.T) {
	w := worldWith(
		stowage.Container{ID: "big", Zone: "Z", Dims: geometry.Dims{W: 20, D: 20, H: 20}},
		stowage.Container{ID: "small", Zone: "Z", Dims: geometry.Dims{W: 3, D: 3, H: 3}},
	)

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 1, 1, 1, 50, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "small", res.Placements[0].ContainerID)

	// A bulky item that cannot fit the small container lands in the big one
	// (at volume 1000 it is still under 0.3 × the mean 4013.5, so "small" is
	// tried first and rejected on fit).
	res, err = newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(2, 10, 10, 10, 50, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "big", res.Placements[0].ContainerID)
}

func TestFillThresholdGate(t *testing.T) {
	// "full" is the smaller container so the small-item ordering would pick
	// it first if the gate did not intervene.
	w := worldWith(
		stowage.Container{ID: "full", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}},
		stowage.Container{ID: "empty", Zone: "Z", Dims: geometry.Dims{W: 12, D: 10, H: 10}},
	)
	// Fill "full" to 90%: a 10×10×9 slab.
	w.Items[99] = item(99, 10, 10, 9, 50, "Z")
	w.Placements[99] = stowage.Placement{
		ItemID: 99, ContainerID: "full", Orientation: geometry.OrientWDH,
		EffectiveDims: geometry.Dims{W: 10, D: 10, H: 9},
	}

	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 1, 1, 1, 50, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "empty", res.Placements[0].ContainerID, "capacity gate skips the 90%% container")
}

// Determinism: identical input worlds yield identical results.
func TestPlanDeterminism(t *testing.T) {
	build := func() (*stowage.World, []stowage.Item) {
		w := worldWith(
			stowage.Container{ID: "a", Zone: "Z", Dims: geometry.Dims{W: 12, D: 9, H: 7}},
			stowage.Container{ID: "b", Zone: "Z", Dims: geometry.Dims{W: 6, D: 6, H: 6}},
		)
		items := []stowage.Item{
			item(3, 2, 3, 1, 70, "Z"),
			item(1, 4, 2, 2, 70, "Z"),
			item(2, 3, 3, 3, 20, "Z"),
			item(4, 1, 1, 1, 90, "Z"),
			item(5, 5, 4, 3, 50, "Z"),
		}
		return w, items
	}

	w1, items1 := build()
	w2, items2 := build()
	r1, err := newPlanner().PlanPlacements(context.Background(), w1, items1)
	require.NoError(t, err)
	r2, err := newPlanner().PlanPlacements(context.Background(), w2, items2)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(r1, r2))
}

// Containment and non-overlap invariants over a busy batch.
func TestPlanInvariants(t *testing.T) {
	w := worldWith(
		stowage.Container{ID: "a", Zone: "Z", Dims: geometry.Dims{W: 10, D: 8, H: 6}},
		stowage.Container{ID: "b", Zone: "Z", Dims: geometry.Dims{W: 5, D: 5, H: 5}},
	)
	var items []stowage.Item
	for i := int64(1); i <= 12; i++ {
		items = append(items, item(i, float64(1+i%3), float64(1+(i+1)%3), float64(1+(i+2)%3), int(i*7%100), "Z"))
	}

	res, err := newPlanner().PlanPlacements(context.Background(), w, items)
	require.NoError(t, err)
	require.NotEmpty(t, res.Placements)

	byContainer := map[string][]stowage.Placement{}
	seen := map[int64]bool{}
	catalog := map[int64]stowage.Item{}
	for _, it := range items {
		catalog[it.ID] = it
	}
	for _, p := range res.Placements {
		c := w.Containers[p.ContainerID]
		assert.True(t, geometry.Contains(c.Interior(), p.Box()), "containment for item %d", p.ItemID)
		assert.True(t, geometry.IsPermutation(catalog[p.ItemID].Dims, p.EffectiveDims), "orientation fidelity for item %d", p.ItemID)
		assert.False(t, seen[p.ItemID], "item %d placed twice", p.ItemID)
		seen[p.ItemID] = true
		byContainer[p.ContainerID] = append(byContainer[p.ContainerID], p)
	}
	for _, ps := range byContainer {
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				assert.False(t, geometry.Overlap(ps[i].Box(), ps[j].Box()),
					"items %d and %d overlap", ps[i].ItemID, ps[j].ItemID)
			}
		}
	}
}

func TestPlanSingleRequestedPosition(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})
	w.Items[1] = item(1, 2, 3, 4, 50, "Z")

	box := geometry.NewBox(geometry.Vec{X: 1, Y: 1, Z: 0}, geometry.Dims{W: 3, D: 2, H: 4})
	p, err := newPlanner().PlanSingle(w, 1, "C1", &box)
	require.NoError(t, err)
	assert.Equal(t, geometry.Vec{X: 1, Y: 1, Z: 0}, p.MinCorner)
	assert.Equal(t, geometry.OrientDWH, p.Orientation, "requested box implies a rotation")

	// A box that is no permutation of the catalog dims is invalid input.
	bad := geometry.NewBox(geometry.Vec{}, geometry.Dims{W: 2, D: 2, H: 2})
	_, err = newPlanner().PlanSingle(w, 1, "C1", &bad)
	assert.ErrorIs(t, err, stowage.ErrInvalidInput)
}

func TestPlanSingleSubstitutesSmallestContainer(t *testing.T) {
	w := worldWith(
		stowage.Container{ID: "tiny", Zone: "Z", Dims: geometry.Dims{W: 1, D: 1, H: 1}},
		stowage.Container{ID: "roomy", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}},
	)
	w.Items[1] = item(1, 2, 3, 4, 50, "Z")

	p, err := newPlanner().PlanSingle(w, 1, "tiny", nil)
	require.NoError(t, err)
	assert.Equal(t, "roomy", p.ContainerID)
}

func TestPlanSingleNotFound(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})

	_, err := newPlanner().PlanSingle(w, 42, "C1", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	w.Items[1] = item(1, 1, 1, 1, 50, "Z")
	_, err = newPlanner().PlanSingle(w, 1, "nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
