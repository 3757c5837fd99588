package dto

import (
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/planner"
)

// Placement is the wire form of a committed placement.
type Placement struct {
	ItemID      int64    `json:"itemId"`
	ContainerID string   `json:"containerId"`
	Rotation    string   `json:"rotation"`
	Position    Position `json:"position"`
}

// PlacementFromDomain renders a placement on the wire.
func PlacementFromDomain(p stowage.Placement) Placement {
	return Placement{
		ItemID:      p.ItemID,
		ContainerID: p.ContainerID,
		Rotation:    string(p.Orientation),
		Position:    PositionFromBox(p.Box()),
	}
}

// BatchPlacementResponse is the reply to POST /api/placement.
type BatchPlacementResponse struct {
	Success        bool                   `json:"success"`
	Placements     []Placement            `json:"placements"`
	Unplaced       []planner.Unplaced     `json:"unplaced"`
	Rearrangements []planner.Move         `json:"rearrangements,omitempty"`
}

// PlaceResponse is the reply to POST /api/place.
type PlaceResponse struct {
	Success   bool       `json:"success"`
	Placement *Placement `json:"placement,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// RetrieveResponse is the reply to POST /api/retrieve.
type RetrieveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RetrievalStep is a wire step of a retrieval plan.
type RetrievalStep struct {
	Step     int    `json:"step"`
	Action   string `json:"action"`
	ItemID   int64  `json:"itemId"`
	ItemName string `json:"itemName"`
}

func StepsFromDomain(steps []planner.RetrievalStep) []RetrievalStep {
	out := make([]RetrievalStep, len(steps))
	for i, s := range steps {
		out[i] = RetrievalStep{Step: s.Step, Action: string(s.Action), ItemID: s.ItemID, ItemName: s.ItemName}
	}
	return out
}

// FoundItem describes a located item in a search reply.
type FoundItem struct {
	ItemID      int64     `json:"itemId"`
	Name        string    `json:"name"`
	ContainerID string    `json:"containerId,omitempty"`
	Zone        string    `json:"zone,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

// SearchResponse is the reply to GET /api/search.
type SearchResponse struct {
	Success        bool            `json:"success"`
	Found          bool            `json:"found"`
	Item           *FoundItem      `json:"item,omitempty"`
	RetrievalSteps []RetrievalStep `json:"retrievalSteps,omitempty"`
}

// RearrangeResponse is the reply to POST /api/rearrange.
type RearrangeResponse struct {
	Success bool           `json:"success"`
	Moves   []planner.Move `json:"moves,omitempty"`
	Final   *Placement     `json:"finalPlacement,omitempty"`
	Cost    float64        `json:"cost"`
}

// WasteItem is a wire waste manifest row.
type WasteItem struct {
	ItemID      int64  `json:"itemId"`
	Name        string `json:"name"`
	Reason      string `json:"reason"`
	ContainerID string `json:"containerId,omitempty"`
	Position    string `json:"position,omitempty"`
}

// WasteResponse is the reply to POST /api/waste/identify.
type WasteResponse struct {
	Success    bool        `json:"success"`
	WasteItems []WasteItem `json:"wasteItems"`
}

// WasteFromDomain renders manifest entries.
func WasteFromDomain(entries []stowage.WasteEntry) []WasteItem {
	out := make([]WasteItem, len(entries))
	for i, e := range entries {
		out[i] = WasteItem{
			ItemID:      e.ItemID,
			Name:        e.Name,
			Reason:      string(e.Reason),
			ContainerID: e.ContainerID,
			Position:    e.Position,
		}
	}
	return out
}

// LogRow is a wire log entry.
type LogRow struct {
	Timestamp  time.Time      `json:"timestamp"`
	UserID     string         `json:"userId"`
	ActionType string         `json:"actionType"`
	ItemID     int64          `json:"itemId"`
	Details    map[string]any `json:"details"`
}

// LogsResponse is the reply to GET /api/logs.
type LogsResponse struct {
	Logs []LogRow `json:"logs"`
}

// ImportResponse reports how many rows an import loaded.
type ImportResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}
