package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tugruldev/lighthouse-quest/pkg/state"
)

// ErrSessionNotFound is returned when no snapshot exists for the given id.
var ErrSessionNotFound = fmt.Errorf("session not found")

// SessionStore persists optional game-state snapshots so a player can
// resume after a page reload. The interpret path never touches it.
type SessionStore interface {
	SaveSession(ctx context.Context, id uuid.UUID, gs state.GameState, ttl time.Duration) error
	LoadSession(ctx context.Context, id uuid.UUID) (state.GameState, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisSessionStore implements SessionStore on Redis.
type RedisSessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new Redis-backed session store.
func NewRedisSessionStore(addr string, logger *slog.Logger) *RedisSessionStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisSessionStore{
		client: rdb,
		logger: logger,
	}
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisSessionStore) SaveSession(ctx context.Context, id uuid.UUID, gs state.GameState, ttl time.Duration) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(id), data, ttl).Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", sessionKey(id), "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Session saved", "id", id, "ttl", ttl)
	return nil
}

func (r *RedisSessionStore) LoadSession(ctx context.Context, id uuid.UUID) (state.GameState, error) {
	var gs state.GameState

	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return gs, ErrSessionNotFound
		}
		r.logger.Error("Redis GET failed", "key", sessionKey(id), "error", err)
		return gs, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, &gs); err != nil {
		return gs, fmt.Errorf("failed to unmarshal game state: %w", err)
	}
	return gs, nil
}

func (r *RedisSessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error("Redis DEL failed", "key", sessionKey(id), "error", err)
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
