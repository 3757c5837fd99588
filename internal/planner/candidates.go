package planner

import (
	"sort"

	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
)

// candidatePositions enumerates the extreme-point min corners to try for a
// box of dims d inside a container. Seeded with the origin; every placed
// box contributes its right/behind/above corners. Candidates whose box
// would escape the container are discarded, duplicates collapse, and the
// result is ordered by (z, y, x) so scoring ties resolve deterministically.
func candidatePositions(d geometry.Dims, container geometry.Dims, occupants []occupancy.Occupant) []geometry.Vec {
	seen := map[geometry.Vec]struct{}{{}: {}}
	for _, occ := range occupants {
		b := occ.Box
		for _, v := range [3]geometry.Vec{
			{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
			{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
			{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		} {
			seen[v] = struct{}{}
		}
	}

	interior := geometry.NewBox(geometry.Vec{}, container)
	out := make([]geometry.Vec, 0, len(seen))
	for v := range seen {
		if geometry.Contains(interior, geometry.NewBox(v, d)) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}
