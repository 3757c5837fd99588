// Package dto defines the wire shapes of the HTTP surface and their
// conversions into domain types.
package dto

import (
	"fmt"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
)

// Coordinates is a wire point keyed by axis meaning: width → x, depth → y,
// height → z.
type Coordinates struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Vec converts to the internal vector type.
func (c Coordinates) Vec() geometry.Vec {
	return geometry.Vec{X: c.Width, Y: c.Depth, Z: c.Height}
}

func fromVec(v geometry.Vec) Coordinates {
	return Coordinates{Width: v.X, Depth: v.Y, Height: v.Z}
}

// Position is a wire box expressed as its two extreme corners.
type Position struct {
	StartCoordinates Coordinates `json:"startCoordinates"`
	EndCoordinates   Coordinates `json:"endCoordinates"`
}

// Box validates and converts the wire position to a box.
func (p Position) Box() (geometry.Box, error) {
	b := geometry.Box{Min: p.StartCoordinates.Vec(), Max: p.EndCoordinates.Vec()}
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
		return geometry.Box{}, fmt.Errorf("%w: end coordinates must exceed start coordinates", stowage.ErrInvalidInput)
	}
	return b, nil
}

// PositionFromBox renders an internal box on the wire.
func PositionFromBox(b geometry.Box) Position {
	return Position{StartCoordinates: fromVec(b.Min), EndCoordinates: fromVec(b.Max)}
}

// PlaceRequest is the body of POST /api/place.
type PlaceRequest struct {
	ItemID      stowage.ItemID `json:"itemId" binding:"required"`
	ContainerID string         `json:"containerId" binding:"required"`
	UserID      string         `json:"userId"`
	Position    *Position      `json:"position"`
	Timestamp   string         `json:"timestamp"`
}

// RetrieveRequest is the body of POST /api/retrieve.
type RetrieveRequest struct {
	ItemID    stowage.ItemID `json:"itemId" binding:"required"`
	UserID    string         `json:"userId"`
	Timestamp string         `json:"timestamp"`
}

// Item is the wire form of a catalog item.
type Item struct {
	ItemID        stowage.ItemID `json:"itemId" binding:"required"`
	Name          string         `json:"name" binding:"required"`
	Width         float64        `json:"width" binding:"required,gt=0"`
	Depth         float64        `json:"depth" binding:"required,gt=0"`
	Height        float64        `json:"height" binding:"required,gt=0"`
	Mass          float64        `json:"mass" binding:"gte=0"`
	Priority      int            `json:"priority" binding:"gte=0,lte=100"`
	PreferredZone string         `json:"preferredZone"`
	ExpiryDate    string         `json:"expiryDate"`
	UsageLimit    *int           `json:"usageLimit" binding:"omitempty,gte=0"`
}

// ToDomain converts the wire item, parsing the optional expiry date.
func (i Item) ToDomain() (stowage.Item, error) {
	it := stowage.Item{
		ID:            i.ItemID.Int64(),
		Name:          i.Name,
		Dims:          geometry.Dims{W: i.Width, D: i.Depth, H: i.Height},
		Mass:          i.Mass,
		Priority:      i.Priority,
		PreferredZone: i.PreferredZone,
		UsageLimit:    i.UsageLimit,
	}
	if i.ExpiryDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, i.ExpiryDate); err == nil {
				utc := ts.UTC()
				it.Expiry = &utc
				break
			}
		}
		if it.Expiry == nil {
			return stowage.Item{}, fmt.Errorf("%w: expiry date %q", stowage.ErrInvalidInput, i.ExpiryDate)
		}
	}
	if err := it.Validate(); err != nil {
		return stowage.Item{}, err
	}
	return it, nil
}

// Container is the wire form of a container registration.
type Container struct {
	ContainerID string  `json:"containerId" binding:"required"`
	Zone        string  `json:"zone" binding:"required"`
	Width       float64 `json:"width" binding:"required,gt=0"`
	Depth       float64 `json:"depth" binding:"required,gt=0"`
	Height      float64 `json:"height" binding:"required,gt=0"`
}

// ToDomain converts the wire container.
func (c Container) ToDomain() (stowage.Container, error) {
	out := stowage.Container{
		ID:   c.ContainerID,
		Zone: c.Zone,
		Dims: geometry.Dims{W: c.Width, D: c.Depth, H: c.Height},
	}
	if err := out.Validate(); err != nil {
		return stowage.Container{}, err
	}
	return out, nil
}

// BatchPlacementRequest is the body of POST /api/placement: the incoming
// items plus any containers not yet registered.
type BatchPlacementRequest struct {
	Items      []Item      `json:"items" binding:"required"`
	Containers []Container `json:"containers"`
}

// RearrangeRequest is the body of POST /api/rearrange.
type RearrangeRequest struct {
	Item Item `json:"item" binding:"required"`
}

// LogAppendRequest is the body of POST /api/logs.
type LogAppendRequest struct {
	ActionType string         `json:"actionType" binding:"required"`
	ItemID     stowage.ItemID `json:"itemId"`
	UserID     string         `json:"userId"`
	Timestamp  string         `json:"timestamp"`
	Details    map[string]any `json:"details"`
}
