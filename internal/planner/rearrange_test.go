package planner

import (
	"context"
	"testing"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

// Incoming bulky arrival needs all of "main"; the low-priority squatter
// must be rehomed next to the resident in "spare".
func rearrangeWorld() *stowage.World {
	w := worldWith(
		stowage.Container{ID: "main", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}},
		stowage.Container{ID: "spare", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}},
	)
	place(w, 10, "squatter", 10, "main", 0, 0, 0, 2, 2, 2)
	place(w, 20, "resident", 90, "spare", 0, 0, 0, 2, 2, 2)
	return w
}

func TestRearrangeFreesSpaceForPriorityArrival(t *testing.T) {
	w := rearrangeWorld()

	res, err := newPlanner().PlanRearrangement(w, item(1, 4, 4, 4, 90, "Z"))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Final)

	assert.Equal(t, int64(1), res.Final.ItemID)
	assert.Equal(t, "main", res.Final.ContainerID)

	require.Len(t, res.Moves, 1)
	m := res.Moves[0]
	assert.Equal(t, int64(10), m.ItemID)
	assert.Equal(t, "main", m.FromContainer)
	assert.Equal(t, "spare", m.ToContainer)
	assert.Equal(t, MoveFinal, m.Kind)
	assert.Positive(t, res.Cost, "the squatter travels a nonzero distance")

	require.Len(t, res.Settled, 1)
	assert.Equal(t, "spare", res.Settled[0].ContainerID)
	assert.Equal(t, m.ToPosition, res.Settled[0].MinCorner)
}

func TestRearrangeFailsWhenNowhereToGo(t *testing.T) {
	w := worldWith(stowage.Container{ID: "only", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}})
	place(w, 10, "squatter", 10, "only", 0, 0, 0, 4, 4, 4)

	res, err := newPlanner().PlanRearrangement(w, item(1, 4, 4, 4, 90, "Z"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.Moves)
}

func TestRearrangeCostGate(t *testing.T) {
	opts := DefaultOptions()
	opts.CostThreshold = 0 // any actual travel is too expensive
	pl := New(nil, opts)

	res, err := pl.PlanRearrangement(rearrangeWorld(), item(1, 4, 4, 4, 90, "Z"))
	require.NoError(t, err)
	assert.False(t, res.Success, "zero budget forbids the move")
}

func TestRearrangeNoMutationOnFailure(t *testing.T) {
	w := worldWith(stowage.Container{ID: "only", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}})
	place(w, 10, "squatter", 10, "only", 0, 0, 0, 4, 4, 4)
	before := w.Placements[10]

	res, err := newPlanner().PlanRearrangement(w, item(1, 4, 4, 4, 90, "Z"))
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, before, w.Placements[10])
	assert.Len(t, w.Placements, 1)
}

func TestBatchFallsBackToRearrangement(t *testing.T) {
	w := worldWith(
		stowage.Container{ID: "main", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}},
		stowage.Container{ID: "spare", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 4}},
	)
	place(w, 10, "half-slab", 10, "main", 0, 0, 0, 4, 4, 2)
	place(w, 11, "full-slab", 10, "spare", 0, 0, 0, 4, 4, 4)

	// The half slab has nowhere to go, so the arrival stays unplaced...
	res, err := newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 4, 4, 4, 90, "Z")})
	require.NoError(t, err)
	require.Len(t, res.Unplaced, 1)
	assert.Equal(t, ReasonNoFit, res.Unplaced[0].Reason)

	// ...until a slab-sized container appears and the batch routes the
	// blocker there via a rearrangement.
	w.Containers["shelf"] = stowage.Container{ID: "shelf", Zone: "Z", Dims: geometry.Dims{W: 4, D: 4, H: 2}}
	res, err = newPlanner().PlanPlacements(context.Background(), w, []stowage.Item{item(1, 4, 4, 4, 90, "Z")})
	require.NoError(t, err)
	require.Empty(t, res.Unplaced)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, "main", res.Placements[0].ContainerID)
	require.NotEmpty(t, res.Rearrangements)
	assert.Equal(t, int64(10), res.Rearrangements[0].ItemID)
	assert.Equal(t, "shelf", res.Rearrangements[0].ToContainer)
}

func TestWasteClassification(t *testing.T) {
	w := worldWith(stowage.Container{ID: "C1", Zone: "Z", Dims: geometry.Dims{W: 10, D: 10, H: 10}})
	clock := mustTime(t, "2026-08-01T00:00:00Z")

	expired := item(1, 1, 1, 1, 50, "Z")
	at := clock
	expired.Expiry = &at

	used := item(2, 1, 1, 1, 50, "Z")
	zero := 0
	used.UsageLimit = &zero

	fine := item(3, 1, 1, 1, 50, "Z")
	later := clock.AddDate(0, 0, 1)
	three := 3
	fine.Expiry = &later
	fine.UsageLimit = &three

	for _, it := range []stowage.Item{expired, used, fine} {
		w.Items[it.ID] = it
	}
	w.Placements[1] = stowage.Placement{
		ItemID: 1, ContainerID: "C1", Orientation: geometry.OrientWDH,
		MinCorner: geometry.Vec{X: 1, Y: 2, Z: 3}, EffectiveDims: geometry.Dims{W: 1, D: 1, H: 1},
	}

	entries := newPlanner().ClassifyWaste(w, clock)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ItemID)
	assert.Equal(t, stowage.WasteExpired, entries[0].Reason)
	assert.Equal(t, "C1", entries[0].ContainerID)
	assert.Equal(t, "(1.000,2.000,3.000),(2.000,3.000,4.000)", entries[0].Position)

	assert.Equal(t, int64(2), entries[1].ItemID)
	assert.Equal(t, stowage.WasteOutOfUses, entries[1].Reason)
	assert.Empty(t, entries[1].ContainerID, "unplaced waste has no container")
}

func TestWasteExpiryWinsOverUsage(t *testing.T) {
	w := worldWith()
	clock := mustTime(t, "2026-08-01T00:00:00Z")
	both := item(1, 1, 1, 1, 50, "Z")
	zero := 0
	both.UsageLimit = &zero
	both.Expiry = &clock
	w.Items[1] = both

	entries := newPlanner().ClassifyWaste(w, clock)
	require.Len(t, entries, 1)
	assert.Equal(t, stowage.WasteExpired, entries[0].Reason)
}
