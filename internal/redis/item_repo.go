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
	ErrItemNotFound = errors.New("item not found")

	itemKeyPrefix = "interstellar:item:"
	itemIDsKey    = "interstellar:items" // SET of decimal item ids
)

// ItemRepository provides Redis-backed persistence for the item catalog.
type ItemRepository struct {
	client *Client
	log    *zap.Logger
}

func newItemRepository(log *zap.Logger, client *Client) *ItemRepository {
	return &ItemRepository{
		log:    log.Named("item_repo"),
		client: client,
	}
}

// Upsert persists an item and registers its id in the index set.
func (r *ItemRepository) Upsert(ctx context.Context, it stowage.Item) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, itemKey(it.ID), payload, 0)
	pipe.SAdd(ctx, itemIDsKey, strconv.FormatInt(it.ID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// UpsertAll persists a batch in one pipeline.
func (r *ItemRepository) UpsertAll(ctx context.Context, items []stowage.Item) error {
	if len(items) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item %d: %w", it.ID, err)
		}
		pipe.Set(ctx, itemKey(it.ID), payload, 0)
		pipe.SAdd(ctx, itemIDsKey, strconv.FormatInt(it.ID, 10))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// GetByID fetches one catalog item. Returns ErrItemNotFound when absent.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (stowage.Item, error) {
	raw, err := r.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stowage.Item{}, ErrItemNotFound
		}
		return stowage.Item{}, fmt.Errorf("get: %w", err)
	}
	var it stowage.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return stowage.Item{}, fmt.Errorf("decode: %w", err)
	}
	return it, nil
}

// GetAll returns the whole catalog.
func (r *ItemRepository) GetAll(ctx context.Context) ([]stowage.Item, error) {
	ids, err := r.client.SMembers(ctx, itemIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("set members: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	out := make([]stowage.Item, 0, len(vals))
	for i, v := range vals {
		if v == nil {
			// Index set and documents drifted; skip and let the next import
			// heal it.
			r.log.Warn("dangling item index entry", zap.String("key", keys[i]))
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key %s: unexpected type %T", keys[i], v)
		}
		var it stowage.Item
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			return nil, fmt.Errorf("key %s: decode: %w", keys[i], err)
		}
		out = append(out, it)
	}
	return out, nil
}

// Delete removes an item document and its index entry.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, itemKey(id))
	pipe.SRem(ctx, itemIDsKey, strconv.FormatInt(id, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if del.Val() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteAll drops the catalog (import reset).
func (r *ItemRepository) DeleteAll(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, itemIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("set members: %w", err)
	}
	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, itemKeyPrefix+id)
	}
	pipe.Del(ctx, itemIDsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func itemKey(id int64) string {
	return fmt.Sprintf("%s%d", itemKeyPrefix, id)
}
