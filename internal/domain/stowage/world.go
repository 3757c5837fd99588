package stowage

import "sort"

// World is the in-memory snapshot the planners operate on: containers,
// catalog items, and the active placements keyed by item id. A world is
// owned by a single planner invocation at a time; the service layer
// serializes access.
type World struct {
	Containers map[string]Container
	Items      map[int64]Item
	Placements map[int64]Placement
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		Containers: make(map[string]Container),
		Items:      make(map[int64]Item),
		Placements: make(map[int64]Placement),
	}
}

// Clone deep-copies the world so a planner can mutate freely without
// touching the caller's snapshot.
func (w *World) Clone() *World {
	out := &World{
		Containers: make(map[string]Container, len(w.Containers)),
		Items:      make(map[int64]Item, len(w.Items)),
		Placements: make(map[int64]Placement, len(w.Placements)),
	}
	for id, c := range w.Containers {
		out.Containers[id] = c
	}
	for id, it := range w.Items {
		out.Items[id] = it
	}
	for id, p := range w.Placements {
		out.Placements[id] = p
	}
	return out
}

// PlacementsIn returns the placements inside the given container, ordered
// by item id for deterministic iteration.
func (w *World) PlacementsIn(containerID string) []Placement {
	var out []Placement
	for _, p := range w.Placements {
		if p.ContainerID == containerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// UsedVolume returns the summed volume of placements in the container.
func (w *World) UsedVolume(containerID string) float64 {
	var used float64
	for _, p := range w.Placements {
		if p.ContainerID == containerID {
			used += p.EffectiveDims.Volume()
		}
	}
	return used
}

// ContainersInZone returns the zone's containers ordered by id.
func (w *World) ContainersInZone(zone string) []Container {
	var out []Container
	for _, c := range w.Containers {
		if c.Zone == zone {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
