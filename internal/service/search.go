package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/planner"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SearchOptions controls the snapshot cache policy.
type SearchOptions struct {
	// TTL controls how long a world snapshot is served before a reload.
	TTL time.Duration
	// RefreshTimeout bounds Redis work for a single refresh.
	RefreshTimeout time.Duration
}

func (o *SearchOptions) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = 250 * time.Millisecond
	}
	if o.RefreshTimeout <= 0 {
		o.RefreshTimeout = 300 * time.Millisecond
	}
}

// SearchResult is a located item plus the steps to get it out.
type SearchResult struct {
	Found bool
	Item  stowage.Item
	Zone  string
	Place *stowage.Placement
	Steps []planner.RetrievalStep
}

// SearchService answers item lookups against a cached world snapshot.
// Concurrent refreshes are coalesced through singleflight; search traffic
// never blocks the planning mutex.
type SearchService struct {
	log     *zap.Logger
	stowage *StowageService
	planner *planner.Planner

	mu      sync.RWMutex
	cache   *stowage.World
	expires time.Time

	opts SearchOptions
	now  func() time.Time

	sg singleflight.Group
}

// NewSearchService wires the snapshot cache.
func NewSearchService(log *zap.Logger, st *StowageService, pl *planner.Planner, opts SearchOptions) *SearchService {
	if log == nil {
		log = zap.NewNop()
	}
	opts.setDefaults()
	return &SearchService{
		log:     log.Named("search"),
		stowage: st,
		planner: pl,
		opts:    opts,
		now:     time.Now,
	}
}

// Invalidate drops the cached snapshot; mutating handlers call this after a
// commit so searches observe the change immediately.
func (s *SearchService) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// snapshot returns the cached world or refreshes it once for all waiters.
func (s *SearchService) snapshot(ctx context.Context) (*stowage.World, error) {
	s.mu.RLock()
	if s.cache != nil && s.now().Before(s.expires) {
		w := s.cache
		s.mu.RUnlock()
		return w, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sg.Do("world-refresh", func() (any, error) {
		s.mu.RLock()
		if s.cache != nil && s.now().Before(s.expires) {
			w := s.cache
			s.mu.RUnlock()
			return w, nil
		}
		s.mu.RUnlock()

		ctx, cancel := context.WithTimeout(ctx, s.opts.RefreshTimeout)
		defer cancel()

		w, err := s.stowage.LoadWorld(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache = w
		s.expires = s.now().Add(s.opts.TTL)
		s.mu.Unlock()
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*stowage.World), nil
}

// ByID locates an item by id and plans its retrieval.
func (s *SearchService) ByID(ctx context.Context, itemID int64) (SearchResult, error) {
	w, err := s.snapshot(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	item, ok := w.Items[itemID]
	if !ok {
		return SearchResult{Found: false}, nil
	}
	return s.locate(w, item)
}

// ByName locates an item by exact name (case-insensitive); the lowest item
// id wins when names collide.
func (s *SearchService) ByName(ctx context.Context, name string) (SearchResult, error) {
	w, err := s.snapshot(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	var best *stowage.Item
	for _, it := range w.Items {
		if !strings.EqualFold(it.Name, name) {
			continue
		}
		if best == nil || it.ID < best.ID {
			cp := it
			best = &cp
		}
	}
	if best == nil {
		return SearchResult{Found: false}, nil
	}
	return s.locate(w, *best)
}

// locate resolves placement, zone, and retrieval steps for a found item.
// An unplaced catalog item is still "found", just with no position.
func (s *SearchService) locate(w *stowage.World, item stowage.Item) (SearchResult, error) {
	res := SearchResult{Found: true, Item: item}

	p, ok := w.Placements[item.ID]
	if !ok {
		return res, nil
	}
	res.Place = &p
	c, ok := w.Containers[p.ContainerID]
	if !ok {
		return SearchResult{}, fmt.Errorf("placement of item %d references container %q: %w",
			item.ID, p.ContainerID, ErrNotFound)
	}
	res.Zone = c.Zone

	steps, err := s.planner.PlanRetrieval(w, item.ID)
	if err != nil {
		return SearchResult{}, err
	}
	res.Steps = steps
	return res, nil
}
