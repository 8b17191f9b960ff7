package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// RedisStore is a DurableStore backed by Redis, giving cached responses a
// durable layer that survives process restarts and is shared across
// replicas of the service.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client. prefix namespaces keys
// (e.g. "seeker:cache:") to avoid collisions with other consumers of the
// same Redis instance.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) fullKey(key string) string {
	return s.prefix + key
}

// Get returns the cached response for key, or ok=false on a cache miss. A
// Redis error is returned so the caller can degrade to in-memory-only.
func (s *RedisStore) Get(key string) (*model.KnowledgeResponse, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp model.KnowledgeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

// Put writes resp under key with the given TTL.
func (s *RedisStore) Put(key string, resp *model.KnowledgeResponse, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.fullKey(key), raw, ttl).Err()
}
