package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlap(t *testing.T) {
	base := NewBox(Vec{}, Dims{W: 2, D: 3, H: 4})

	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"identical", NewBox(Vec{}, Dims{W: 2, D: 3, H: 4}), true},
		{"interior", NewBox(Vec{X: 0.5, Y: 0.5, Z: 0.5}, Dims{W: 1, D: 1, H: 1}), true},
		{"shared face x", NewBox(Vec{X: 2, Y: 0, Z: 0}, Dims{W: 2, D: 3, H: 4}), false},
		{"shared face y", NewBox(Vec{X: 0, Y: 3, Z: 0}, Dims{W: 2, D: 3, H: 4}), false},
		{"shared face z", NewBox(Vec{X: 0, Y: 0, Z: 4}, Dims{W: 2, D: 3, H: 4}), false},
		{"disjoint", NewBox(Vec{X: 10, Y: 10, Z: 10}, Dims{W: 1, D: 1, H: 1}), false},
		{"within epsilon of face", NewBox(Vec{X: 2 - 1e-9, Y: 0, Z: 0}, Dims{W: 1, D: 1, H: 1}), false},
		{"past epsilon", NewBox(Vec{X: 1.9, Y: 0, Z: 0}, Dims{W: 1, D: 1, H: 1}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlap(base, tt.b))
			assert.Equal(t, tt.want, Overlap(tt.b, base), "overlap must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	outer := NewBox(Vec{}, Dims{W: 10, D: 10, H: 10})

	assert.True(t, Contains(outer, NewBox(Vec{X: 1, Y: 2, Z: 3}, Dims{W: 2, D: 2, H: 2})))
	assert.True(t, Contains(outer, outer), "upper faces are inclusive")
	assert.True(t, Contains(outer, NewBox(Vec{X: 8, Y: 8, Z: 8}, Dims{W: 2 + 1e-9, D: 2, H: 2})), "epsilon slack on upper face")
	assert.False(t, Contains(outer, NewBox(Vec{X: 9, Y: 0, Z: 0}, Dims{W: 2, D: 2, H: 2})))
	assert.False(t, Contains(outer, NewBox(Vec{X: -1, Y: 0, Z: 0}, Dims{W: 2, D: 2, H: 2})))
}

func TestAxisDistance(t *testing.T) {
	a := NewBox(Vec{}, Dims{W: 2, D: 2, H: 2})

	assert.Equal(t, 0.0, AxisDistance(a, NewBox(Vec{X: 2, Y: 0, Z: 0}, Dims{W: 1, D: 1, H: 1})), "touching boxes")
	assert.Equal(t, 3.0, AxisDistance(a, NewBox(Vec{X: 5, Y: 0, Z: 0}, Dims{W: 1, D: 1, H: 1})))
	assert.Equal(t, 4.0, AxisDistance(a, NewBox(Vec{X: 5, Y: 6, Z: 0}, Dims{W: 1, D: 1, H: 1})), "largest axis gap wins")
	assert.Equal(t, 0.0, AxisDistance(a, a), "overlapping boxes")
}

func TestOrientations(t *testing.T) {
	t.Run("distinct dims give six", func(t *testing.T) {
		got := Orientations(Dims{W: 1, D: 2, H: 3})
		require.Len(t, got, 6)
		assert.Equal(t, OrientWDH, got[0].Orientation, "identity comes first")
		assert.Equal(t, Dims{W: 1, D: 2, H: 3}, got[0].Dims)
	})

	t.Run("two equal axes give three", func(t *testing.T) {
		got := Orientations(Dims{W: 2, D: 2, H: 5})
		assert.Len(t, got, 3)
	})

	t.Run("cube gives one", func(t *testing.T) {
		got := Orientations(Dims{W: 2, D: 2, H: 2})
		require.Len(t, got, 1)
		assert.Equal(t, OrientWDH, got[0].Orientation)
	})

	t.Run("every orientation is a permutation", func(t *testing.T) {
		d := Dims{W: 1, D: 2, H: 3}
		for _, od := range Orientations(d) {
			assert.True(t, IsPermutation(d, od.Dims))
			assert.InDelta(t, d.Volume(), od.Dims.Volume(), 1e-12)
		}
	})
}

func TestIsPermutation(t *testing.T) {
	d := Dims{W: 1, D: 2, H: 3}
	assert.True(t, IsPermutation(d, Dims{W: 3, D: 1, H: 2}))
	assert.False(t, IsPermutation(d, Dims{W: 1, D: 2, H: 4}))
}

func TestOrientationOf(t *testing.T) {
	d := Dims{W: 2, D: 3, H: 4}
	assert.Equal(t, OrientWDH, OrientationOf(d, d))
	assert.Equal(t, OrientDWH, OrientationOf(d, Dims{W: 3, D: 2, H: 4}))

	got := OrientationOf(d, Dims{W: 4, D: 2, H: 3})
	assert.Equal(t, Dims{W: 4, D: 2, H: 3}, got.Apply(d))
}

func TestSpansOverlap(t *testing.T) {
	assert.True(t, SpansOverlap(0, 2, 1, 3))
	assert.False(t, SpansOverlap(0, 2, 2, 4), "shared endpoint")
	assert.False(t, SpansOverlap(0, 1, 2, 3))
}
