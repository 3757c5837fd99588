// Package service orchestrates the planners over the persisted world:
// loading snapshots, serializing planner invocations, committing diffs,
// and the usage/waste/log bookkeeping around them.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Tusker13-04/interstellar/internal/csvio"
	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/occupancy"
	"github.com/Tusker13-04/interstellar/internal/planner"
	"github.com/Tusker13-04/interstellar/internal/redis"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrNoUsesLeft reports a retrieval against an exhausted item.
	ErrNoUsesLeft = errors.New("no uses left")
)

// StowageService owns the mutable world. A single mutex serializes every
// mutating planner invocation and commit; two planning requests must never
// observe the same snapshot concurrently. Read-only planning (PlanRetrieval,
// exports) runs without the mutex.
type StowageService struct {
	log     *zap.Logger
	mu      sync.Mutex
	repo    *redis.Repository
	planner *planner.Planner
	logs    *LogService
	now     func() time.Time
}

// NewStowageService wires the planner and repositories.
func NewStowageService(log *zap.Logger, repo *redis.Repository, pl *planner.Planner, logs *LogService) *StowageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StowageService{
		log:     log.Named("stowage"),
		repo:    repo,
		planner: pl,
		logs:    logs,
		now:     time.Now,
	}
}

// LoadWorld assembles a fresh world snapshot from the repositories.
func (s *StowageService) LoadWorld(ctx context.Context) (*stowage.World, error) {
	items, err := s.repo.Items.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	containers, err := s.repo.Containers.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}
	placements, err := s.repo.Placements.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load placements: %w", err)
	}

	w := stowage.NewWorld()
	for _, it := range items {
		w.Items[it.ID] = it
	}
	for _, c := range containers {
		w.Containers[c.ID] = c
	}
	for _, p := range placements {
		w.Placements[p.ItemID] = p
	}
	return w, nil
}

// PlanBatch runs the batch placement planner and commits the resulting diff
// in full; a planner error commits nothing.
func (s *StowageService) PlanBatch(ctx context.Context, items []stowage.Item) (*planner.PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.LoadWorld(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.planner.PlanPlacements(ctx, w, items)
	if err != nil {
		return nil, err
	}

	// Invalid rows never enter the catalog; they are already reported in
	// the unplaced list.
	valid := make([]stowage.Item, 0, len(items))
	for _, it := range items {
		if it.Validate() == nil {
			valid = append(valid, it)
		}
	}
	if err := s.repo.Items.UpsertAll(ctx, valid); err != nil {
		return nil, err
	}
	diff := make([]stowage.Placement, 0, len(res.Placements)+len(res.Moved))
	diff = append(diff, res.Moved...)
	diff = append(diff, res.Placements...)
	if err := s.repo.Placements.UpsertAll(ctx, diff); err != nil {
		return nil, err
	}

	s.logs.Record(ctx, "placement", "", 0, map[string]any{
		"placed":   len(res.Placements),
		"unplaced": len(res.Unplaced),
		"moves":    len(res.Rearrangements),
	}, nil)
	return res, nil
}

// PlaceItem handles a manual single placement, optionally at an
// operator-requested box, and commits it.
func (s *StowageService) PlaceItem(ctx context.Context, itemID int64, containerID string, requested *geometry.Box, userID string, ts *time.Time) (stowage.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.LoadWorld(ctx)
	if err != nil {
		return stowage.Placement{}, err
	}

	p, err := s.planner.PlanSingle(w, itemID, containerID, requested)
	if err != nil {
		return stowage.Placement{}, mapPlannerErr(err)
	}
	if err := s.repo.Placements.Upsert(ctx, p); err != nil {
		return stowage.Placement{}, err
	}

	s.logs.Record(ctx, "place", userID, itemID, map[string]any{
		"containerId": p.ContainerID,
		"position":    stowage.FormatCoordinates(p.Box()),
	}, ts)
	return p, nil
}

// Retrieve books one use of an item: the usage count drops, and an
// exhausted item leaves its container for the waste manifest.
func (s *StowageService) Retrieve(ctx context.Context, itemID int64, userID string, ts *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.repo.Items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, redis.ErrItemNotFound) {
			return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return err
	}
	p, err := s.repo.Placements.GetByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, redis.ErrPlacementNotFound) {
			return fmt.Errorf("item %d has no active placement: %w", itemID, ErrNotFound)
		}
		return err
	}

	if item.UsageLimit != nil {
		if *item.UsageLimit <= 0 {
			return fmt.Errorf("item %d: %w", itemID, ErrNoUsesLeft)
		}
		remaining := *item.UsageLimit - 1
		item.UsageLimit = &remaining
		if err := s.repo.Items.Upsert(ctx, item); err != nil {
			return err
		}

		if remaining == 0 {
			// The item's placement is destroyed and the manifest gains an
			// out-of-uses row at its last position.
			if err := s.repo.Placements.Delete(ctx, itemID); err != nil && !errors.Is(err, redis.ErrPlacementNotFound) {
				return err
			}
			entry := stowage.WasteEntry{
				ItemID:      itemID,
				Name:        item.Name,
				Reason:      stowage.WasteOutOfUses,
				ContainerID: p.ContainerID,
				Position:    stowage.FormatCoordinates(p.Box()),
			}
			if err := s.repo.Waste.Append(ctx, entry); err != nil {
				return err
			}
			s.log.Info("item exhausted, routed to waste",
				zap.Int64("item", itemID),
				zap.String("container", p.ContainerID))
		}
	}

	s.logs.Record(ctx, "retrieve", userID, itemID, map[string]any{
		"containerId": p.ContainerID,
	}, ts)
	return nil
}

// PlanRetrieval computes the blocker steps for an item without mutating
// anything.
func (s *StowageService) PlanRetrieval(ctx context.Context, itemID int64) ([]planner.RetrievalStep, error) {
	w, err := s.LoadWorld(ctx)
	if err != nil {
		return nil, err
	}
	steps, err := s.planner.PlanRetrieval(w, itemID)
	if err != nil {
		return nil, mapPlannerErr(err)
	}
	return steps, nil
}

// PlanRearrangement attempts to free space for an incoming item and, on
// success, commits the moves and the final placement.
func (s *StowageService) PlanRearrangement(ctx context.Context, incoming stowage.Item) (*planner.RearrangementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.LoadWorld(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.planner.PlanRearrangement(w, incoming)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, nil
	}

	if err := s.repo.Items.Upsert(ctx, incoming); err != nil {
		return nil, err
	}
	// The planner reports each displaced item's end state; commit the
	// whole diff in one pipeline.
	diff := make([]stowage.Placement, 0, len(res.Settled)+1)
	diff = append(diff, res.Settled...)
	if res.Final != nil {
		diff = append(diff, *res.Final)
	}
	if err := s.repo.Placements.UpsertAll(ctx, diff); err != nil {
		return nil, err
	}
	s.logs.Record(ctx, "rearrangement", "", incoming.ID, map[string]any{
		"moves": len(res.Moves),
	}, nil)
	return res, nil
}

// IdentifyWaste classifies expired and exhausted items, appends them to the
// manifest, and destroys their placements.
func (s *StowageService) IdentifyWaste(ctx context.Context, clock time.Time) ([]stowage.WasteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.LoadWorld(ctx)
	if err != nil {
		return nil, err
	}
	entries := s.planner.ClassifyWaste(w, clock)
	if len(entries) == 0 {
		return nil, nil
	}

	if err := s.repo.Waste.Append(ctx, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := s.repo.Placements.Delete(ctx, e.ItemID); err != nil && !errors.Is(err, redis.ErrPlacementNotFound) {
			return nil, err
		}
	}
	s.logs.Record(ctx, "waste", "", 0, map[string]any{"count": len(entries)}, nil)
	return entries, nil
}

// RegisterContainers persists container registrations arriving with a
// batch request.
func (s *StowageService) RegisterContainers(ctx context.Context, containers []stowage.Container) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Containers.UpsertAll(ctx, containers)
}

// ImportItems loads an item catalog CSV into the world.
func (s *StowageService) ImportItems(ctx context.Context, r io.Reader) (int, error) {
	items, err := csvio.ReadItems(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Items.UpsertAll(ctx, items); err != nil {
		return 0, err
	}
	s.logs.Record(ctx, "import_items", "", 0, map[string]any{"count": len(items)}, nil)
	return len(items), nil
}

// ImportContainers loads a container catalog CSV into the world.
func (s *StowageService) ImportContainers(ctx context.Context, r io.Reader) (int, error) {
	containers, err := csvio.ReadContainers(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Containers.UpsertAll(ctx, containers); err != nil {
		return 0, err
	}
	s.logs.Record(ctx, "import_containers", "", 0, map[string]any{"count": len(containers)}, nil)
	return len(containers), nil
}

// ImportArrangement replaces the active placements with the rows of a
// cargo_arrangement.csv. Every row is checked against the catalog and the
// container geometry before anything is committed; one bad row rejects the
// whole file.
func (s *StowageService) ImportArrangement(ctx context.Context, r io.Reader) (int, error) {
	rows, err := csvio.ReadArrangement(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.LoadWorld(ctx)
	if err != nil {
		return 0, err
	}

	indexes := make(map[string]*occupancy.Index)
	placements := make([]stowage.Placement, 0, len(rows))
	for _, row := range rows {
		item, ok := w.Items[row.ItemID]
		if !ok {
			return 0, fmt.Errorf("arrangement row for item %d: %w", row.ItemID, ErrNotFound)
		}
		c, ok := w.Containers[row.ContainerID]
		if !ok {
			return 0, fmt.Errorf("arrangement row for container %q: %w", row.ContainerID, ErrNotFound)
		}
		dims := row.Box.Dims()
		if !geometry.IsPermutation(item.Dims, dims) {
			return 0, fmt.Errorf("%w: arrangement box of item %d is not an orientation of its catalog dims",
				stowage.ErrInvalidInput, row.ItemID)
		}
		ix, ok := indexes[c.ID]
		if !ok {
			ix = occupancy.NewIndex(c.Dims)
			indexes[c.ID] = ix
		}
		if err := ix.Insert(row.Box, row.ItemID); err != nil {
			return 0, fmt.Errorf("arrangement row for item %d: %w", row.ItemID, err)
		}
		placements = append(placements, stowage.Placement{
			ItemID:        row.ItemID,
			ContainerID:   row.ContainerID,
			Orientation:   geometry.OrientationOf(item.Dims, dims),
			MinCorner:     row.Box.Min,
			EffectiveDims: dims,
		})
	}

	if err := s.repo.Placements.DeleteAll(ctx); err != nil {
		return 0, err
	}
	if err := s.repo.Placements.UpsertAll(ctx, placements); err != nil {
		return 0, err
	}
	s.logs.Record(ctx, "import_arrangement", "", 0, map[string]any{"count": len(placements)}, nil)
	return len(placements), nil
}

// ExportWaste streams the waste manifest as waste_items.csv.
func (s *StowageService) ExportWaste(ctx context.Context, w io.Writer) error {
	entries, err := s.repo.Waste.GetAll(ctx)
	if err != nil {
		return err
	}
	return csvio.WriteWaste(w, entries)
}

// ExportArrangement streams the current placements as cargo_arrangement.csv.
func (s *StowageService) ExportArrangement(ctx context.Context, w io.Writer) error {
	world, err := s.LoadWorld(ctx)
	if err != nil {
		return err
	}
	return csvio.WriteArrangement(w, world)
}

// Clear wipes imported state and truncates the action log.
func (s *StowageService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Placements.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.repo.Items.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.repo.Containers.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.repo.Logs.Truncate(ctx); err != nil {
		return err
	}
	s.log.Info("world cleared")
	return nil
}

// mapPlannerErr translates planner sentinels into service sentinels so
// handlers only ever switch on one error set.
func mapPlannerErr(err error) error {
	if errors.Is(err, planner.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// detailsJSON renders log details; logging must never fail a request, so
// unmarshalable payloads degrade to a message string.
func detailsJSON(details map[string]any) string {
	if details == nil {
		return "{}"
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, fmt.Sprint(details))
	}
	return string(raw)
}
