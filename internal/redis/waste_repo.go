package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var wasteListKey = "interstellar:waste" // LIST of JSON(WasteEntry), append-only

// WasteRepository holds the append-only waste manifest. Entries are never
// mutated once written.
type WasteRepository struct {
	client *Client
	log    *zap.Logger
}

func newWasteRepository(log *zap.Logger, client *Client) *WasteRepository {
	return &WasteRepository{
		log:    log.Named("waste_repo"),
		client: client,
	}
}

// Append adds manifest entries.
func (r *WasteRepository) Append(ctx context.Context, entries ...stowage.WasteEntry) error {
	if len(entries) == 0 {
		return nil
	}
	payloads := make([]interface{}, len(entries))
	for i, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode waste entry %d: %w", e.ItemID, err)
		}
		payloads[i] = raw
	}
	if err := r.client.RPush(ctx, wasteListKey, payloads...).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

// GetAll returns the full manifest in append order.
func (r *WasteRepository) GetAll(ctx context.Context) ([]stowage.WasteEntry, error) {
	vals, err := r.client.LRange(ctx, wasteListKey, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("lrange: %w", err)
	}
	out := make([]stowage.WasteEntry, 0, len(vals))
	for i, v := range vals {
		var e stowage.WasteEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
