package planner

import (
	"math"

	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
)

// earlyExitWaste accepts a position outright, skipping the rest of the
// search for the item.
const earlyExitWaste = 1.0

// positionWaste scores a candidate box inside a container; lower is better.
// Three pulls combine: stay low (heavy/stable), hug the walls, and touch
// what is already stowed.
func positionWaste(box geometry.Box, container geometry.Dims, occupants []occupancy.Occupant) float64 {
	zPenalty := 3 * box.Min.Z

	d := box.Dims()
	wallProximity := math.Min(box.Min.X, container.W-(box.Min.X+d.W)) +
		math.Min(box.Min.Y, container.D-(box.Min.Y+d.D))

	contactBonus := 0.0
	if len(occupants) > 0 {
		contactBonus = math.Inf(1)
		for _, occ := range occupants {
			if gap := geometry.AxisDistance(box, occ.Box); gap < contactBonus {
				contactBonus = gap
			}
		}
	}

	return zPenalty + wallProximity + contactBonus
}
