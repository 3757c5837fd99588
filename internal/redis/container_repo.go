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

var (
	ErrContainerNotFound = errors.New("container not found")

	containerKeyPrefix = "interstellar:container:"
	containerIDsKey    = "interstellar:containers" // SET of container ids
)

// ContainerRepository provides Redis-backed persistence for containers.
type ContainerRepository struct {
	client *Client
	log    *zap.Logger
}

func newContainerRepository(log *zap.Logger, client *Client) *ContainerRepository {
	return &ContainerRepository{
		log:    log.Named("container_repo"),
		client: client,
	}
}

// Upsert persists a container registration.
func (r *ContainerRepository) Upsert(ctx context.Context, c stowage.Container) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, containerKeyPrefix+c.ID, payload, 0)
	pipe.SAdd(ctx, containerIDsKey, c.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// UpsertAll persists a batch in one pipeline.
func (r *ContainerRepository) UpsertAll(ctx context.Context, containers []stowage.Container) error {
	if len(containers) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, c := range containers {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode container %q: %w", c.ID, err)
		}
		pipe.Set(ctx, containerKeyPrefix+c.ID, payload, 0)
		pipe.SAdd(ctx, containerIDsKey, c.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// GetByID fetches one container. Returns ErrContainerNotFound when absent.
func (r *ContainerRepository) GetByID(ctx context.Context, id string) (stowage.Container, error) {
	raw, err := r.client.Get(ctx, containerKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return stowage.Container{}, ErrContainerNotFound
		}
		return stowage.Container{}, fmt.Errorf("get: %w", err)
	}
	var c stowage.Container
	if err := json.Unmarshal(raw, &c); err != nil {
		return stowage.Container{}, fmt.Errorf("decode: %w", err)
	}
	return c, nil
}

// GetAll returns every registered container.
func (r *ContainerRepository) GetAll(ctx context.Context) ([]stowage.Container, error) {
	ids, err := r.client.SMembers(ctx, containerIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("set members: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = containerKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	out := make([]stowage.Container, 0, len(vals))
	for i, v := range vals {
		if v == nil {
			r.log.Warn("dangling container index entry", zap.String("key", keys[i]))
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key %s: unexpected type %T", keys[i], v)
		}
		var c stowage.Container
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("key %s: decode: %w", keys[i], err)
		}
		out = append(out, c)
	}
	return out, nil
}

// DeleteAll drops every container (import reset).
func (r *ContainerRepository) DeleteAll(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, containerIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("set members: %w", err)
	}
	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, containerKeyPrefix+id)
	}
	pipe.Del(ctx, containerIDsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
