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

var logListKey = "interstellar:logs" // LIST of JSON(LogEntry), append-only

// LogRepository holds the append-only action log.
type LogRepository struct {
	client *Client
	log    *zap.Logger
}

func newLogRepository(log *zap.Logger, client *Client) *LogRepository {
	return &LogRepository{
		log:    log.Named("log_repo"),
		client: client,
	}
}

// Append adds one log row.
func (r *LogRepository) Append(ctx context.Context, e stowage.LogEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := r.client.RPush(ctx, logListKey, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

// GetAll returns the log in append order; filtering happens in the service.
func (r *LogRepository) GetAll(ctx context.Context) ([]stowage.LogEntry, error) {
	vals, err := r.client.LRange(ctx, logListKey, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("lrange: %w", err)
	}
	out := make([]stowage.LogEntry, 0, len(vals))
	for i, v := range vals {
		var e stowage.LogEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Truncate clears the log (the /clear operation).
func (r *LogRepository) Truncate(ctx context.Context) error {
	if err := r.client.Del(ctx, logListKey).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}
