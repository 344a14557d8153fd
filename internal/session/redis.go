package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:session:"

// RedisStore keeps each session's log in a Redis list so several server processes can
// share sessions. Every append refreshes the key's TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new RedisStore on top of an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

// NewRedisClient creates a Redis client with the pool settings used for session storage.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Append pushes turns onto the session's list and refreshes its TTL in one round-trip.
func (s *RedisStore) Append(ctx context.Context, id string, turns ...Turn) error {
	if id == "" {
		return ErrInvalidID
	}
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		raw, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		values = append(values, raw)
	}

	key := redisKey(id)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turns: %w", err)
	}
	return nil
}

// List returns the session's turns in append order.
func (s *RedisStore) List(ctx context.Context, id string) ([]Turn, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	raw, err := s.client.LRange(ctx, redisKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var turn Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear deletes the session's list.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
