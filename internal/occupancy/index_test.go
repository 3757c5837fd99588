package occupancy

import (
	"testing"

	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, z, w, d, h float64) geometry.Box {
	return geometry.NewBox(geometry.Vec{X: x, Y: y, Z: z}, geometry.Dims{W: w, D: d, H: h})
}

func TestIsFreeEmpty(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 10, D: 10, H: 10})

	assert.True(t, ix.IsFree(box(0, 0, 0, 2, 3, 4)))
	assert.True(t, ix.IsFree(box(8, 8, 8, 2, 2, 2)), "flush against upper faces")
	assert.False(t, ix.IsFree(box(9, 0, 0, 2, 2, 2)), "escapes container")
	assert.False(t, ix.IsFree(box(-1, 0, 0, 2, 2, 2)))
}

func TestInsertAndCollision(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 10, D: 10, H: 10})
	require.NoError(t, ix.Insert(box(0, 0, 0, 2, 3, 4), 1))

	assert.False(t, ix.IsFree(box(1, 1, 1, 2, 2, 2)))
	assert.True(t, ix.IsFree(box(2, 0, 0, 2, 3, 4)), "shared face is free")

	err := ix.Insert(box(1, 1, 1, 2, 2, 2), 2)
	require.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, 1, ix.Len(), "failed insert must not mutate")

	err = ix.Insert(box(9, 9, 9, 2, 2, 2), 3)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestInsertDuplicateID(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 10, D: 10, H: 10})
	require.NoError(t, ix.Insert(box(0, 0, 0, 1, 1, 1), 7))
	assert.ErrorIs(t, ix.Insert(box(5, 5, 5, 1, 1, 1), 7), ErrOverlap)
}

func TestRemoveIdempotent(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 10, D: 10, H: 10})
	require.NoError(t, ix.Insert(box(0, 0, 0, 2, 2, 2), 1))

	ix.Remove(1)
	assert.True(t, ix.IsFree(box(0, 0, 0, 2, 2, 2)))
	assert.Zero(t, ix.Len())

	ix.Remove(1) // absent: no-op
	ix.Remove(99)
}

func TestOccupantsOrdered(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 10, D: 10, H: 10})
	require.NoError(t, ix.Insert(box(4, 0, 0, 2, 2, 2), 30))
	require.NoError(t, ix.Insert(box(0, 0, 0, 2, 2, 2), 10))
	require.NoError(t, ix.Insert(box(2, 0, 0, 2, 2, 2), 20))

	occ := ix.Occupants()
	require.Len(t, occ, 3)
	assert.Equal(t, int64(10), occ[0].ItemID)
	assert.Equal(t, int64(20), occ[1].ItemID)
	assert.Equal(t, int64(30), occ[2].ItemID)

	b, ok := ix.Box(20)
	require.True(t, ok)
	assert.Equal(t, 2.0, b.Min.X)
}

func TestNeighbors(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 20, D: 20, H: 20})
	require.NoError(t, ix.Insert(box(0, 0, 0, 2, 2, 2), 1))
	require.NoError(t, ix.Insert(box(3, 0, 0, 2, 2, 2), 2))  // gap 1 on x
	require.NoError(t, ix.Insert(box(10, 0, 0, 2, 2, 2), 3)) // gap 8 on x

	near := ix.Neighbors(box(0, 0, 0, 2, 2, 2), 1.5, 1)
	assert.Equal(t, []int64{2}, near)

	far := ix.Neighbors(box(0, 0, 0, 2, 2, 2), 10, 1)
	assert.Equal(t, []int64{2, 3}, far)
}

// Regression for the grid resolution: many small boxes far apart must not
// collide through coarse cells.
func TestGridDoesNotConflateDistantBoxes(t *testing.T) {
	ix := NewIndex(geometry.Dims{W: 100, D: 100, H: 100})
	id := int64(1)
	for x := 0.0; x < 100; x += 25 {
		for y := 0.0; y < 100; y += 25 {
			require.NoError(t, ix.Insert(box(x, y, 0, 5, 5, 5), id))
			id++
		}
	}
	// Space between the placed boxes stays free even inside shared cells.
	assert.True(t, ix.IsFree(box(6, 6, 0, 5, 5, 5)))
	assert.False(t, ix.IsFree(box(24, 0, 0, 5, 5, 5)), "overlaps the x=25 column")
}
