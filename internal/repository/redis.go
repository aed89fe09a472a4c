package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance at url (redis://host:port/db).
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis ping failed, slot operations may fail", "error", err)
	}

	return client, nil
}

// RedisStore keeps slots as plain Redis strings under slot:{client}:{key}.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(clientID, key string) string {
	return "slot:" + clientID + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, clientID, key string) (string, error) {
	v, err := s.client.Get(ctx, redisKey(clientID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSlotNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, clientID, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, redisKey(clientID, key), value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, clientID, key string) error {
	return s.client.Del(ctx, redisKey(clientID, key)).Err()
}
