// Package stowage holds the domain model for cargo stowage: containers,
// the item catalog, active placements, and waste entries.
package stowage

import (
	"time"

	"github.com/Tusker13-04/interstellar/internal/geometry"
)

// Container is a rectangular stowage volume belonging to a zone. Immutable
// after registration. Its interior is the half-open box [0,W)×[0,D)×[0,H);
// items enter and leave through the y=0 face.
type Container struct {
	ID   string        `json:"containerId" validate:"required"`
	Zone string        `json:"zone" validate:"required"`
	Dims geometry.Dims `json:"dims"`
}

// Interior returns the container's interior box.
func (c Container) Interior() geometry.Box {
	return geometry.NewBox(geometry.Vec{}, c.Dims)
}

// Item is a catalog entry. Dimensions here are the authoritative catalog
// dimensions; rotation belongs to the placement, not the item.
type Item struct {
	ID            int64         `json:"itemId"`
	Name          string        `json:"name" validate:"required"`
	Dims          geometry.Dims `json:"dims"`
	Mass          float64       `json:"mass" validate:"gte=0"`
	Priority      int           `json:"priority" validate:"gte=0,lte=100"`
	PreferredZone string        `json:"preferredZone"`
	Expiry        *time.Time    `json:"expiryDate,omitempty"`
	UsageLimit    *int          `json:"usageLimit,omitempty" validate:"omitempty,gte=0"`
}

// Volume returns the catalog volume of the item.
func (it Item) Volume() float64 { return it.Dims.Volume() }

// Placement records where an item sits: the container, the orientation
// applied to the catalog dims, and the min corner of the occupied box.
type Placement struct {
	ItemID        int64                `json:"itemId"`
	ContainerID   string               `json:"containerId"`
	Orientation   geometry.Orientation `json:"orientation"`
	MinCorner     geometry.Vec         `json:"minCorner"`
	EffectiveDims geometry.Dims        `json:"effectiveDims"`
}

// Box returns the occupied box [min, min+effective).
func (p Placement) Box() geometry.Box {
	return geometry.NewBox(p.MinCorner, p.EffectiveDims)
}

// WasteReason classifies why an item was routed to the waste manifest.
type WasteReason string

const (
	WasteExpired   WasteReason = "expired"
	WasteOutOfUses WasteReason = "out-of-uses"
	WasteDamaged   WasteReason = "damaged"
	WasteManual    WasteReason = "manual"
)

// WasteEntry is an append-only manifest row; never mutated once written.
type WasteEntry struct {
	ItemID      int64       `json:"itemId"`
	Name        string      `json:"name"`
	Reason      WasteReason `json:"reason"`
	ContainerID string      `json:"containerId"`
	Position    string      `json:"position"`
}

// LogEntry is one row of the action log.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"userId"`
	ActionType string    `json:"actionType"`
	ItemID     int64     `json:"itemId"` // 0 when the action has no item
	Details    string    `json:"details"` // JSON document
}
