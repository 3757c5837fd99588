package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrPlacementNotFound = errors.New("placement not found")

	placementKeyPrefix = "interstellar:placement:"
	placementIDsKey    = "interstellar:placements" // SET of decimal item ids
)

// PlacementRepository persists the active placements, keyed by item id
// (one active placement per item).
type PlacementRepository struct {
	client *Client
	log    *zap.Logger
}

func newPlacementRepository(log *zap.Logger, client *Client) *PlacementRepository {
	return &PlacementRepository{
		log:    log.Named("placement_repo"),
		client: client,
	}
}

// Upsert records an item's placement; replacing the previous one is the
// atomic "placement mutated by rearrangement" operation.
func (r *PlacementRepository) Upsert(ctx context.Context, p stowage.Placement) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, placementKey(p.ItemID), payload, 0)
	pipe.SAdd(ctx, placementIDsKey, strconv.FormatInt(p.ItemID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// UpsertAll applies a whole batch diff in one pipeline, so a partial batch
// never becomes visible.
func (r *PlacementRepository) UpsertAll(ctx context.Context, ps []stowage.Placement) error {
	if len(ps) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, p := range ps {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode placement %d: %w", p.ItemID, err)
		}
		pipe.Set(ctx, placementKey(p.ItemID), payload, 0)
		pipe.SAdd(ctx, placementIDsKey, strconv.FormatInt(p.ItemID, 10))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// GetByItemID fetches an item's active placement.
func (r *PlacementRepository) GetByItemID(ctx context.Context, itemID int64) (stowage.Placement, error) {
	raw, err := r.client.Get(ctx, placementKey(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stowage.Placement{}, ErrPlacementNotFound
		}
		return stowage.Placement{}, fmt.Errorf("get: %w", err)
	}
	var p stowage.Placement
	if err := json.Unmarshal(raw, &p); err != nil {
		return stowage.Placement{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// GetAll returns every active placement.
func (r *PlacementRepository) GetAll(ctx context.Context) ([]stowage.Placement, error) {
	ids, err := r.client.SMembers(ctx, placementIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("set members: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = placementKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	out := make([]stowage.Placement, 0, len(vals))
	for i, v := range vals {
		if v == nil {
			r.log.Warn("dangling placement index entry", zap.String("key", keys[i]))
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key %s: unexpected type %T", keys[i], v)
		}
		var p stowage.Placement
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("key %s: decode: %w", keys[i], err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Delete destroys a placement (waste routing or undock). Idempotent at the
// storage level; absence is reported so callers can decide.
func (r *PlacementRepository) Delete(ctx context.Context, itemID int64) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, placementKey(itemID))
	pipe.SRem(ctx, placementIDsKey, strconv.FormatInt(itemID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if del.Val() == 0 {
		return ErrPlacementNotFound
	}
	return nil
}

// DeleteAll drops every placement (import reset).
func (r *PlacementRepository) DeleteAll(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, placementIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("set members: %w", err)
	}
	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, placementKeyPrefix+id)
	}
	pipe.Del(ctx, placementIDsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func placementKey(itemID int64) string {
	return fmt.Sprintf("%s%d", placementKeyPrefix, itemID)
}
