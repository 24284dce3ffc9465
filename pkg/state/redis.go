package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redisclient "github.com/freshkart/storefront-go/pkg/redis"
)

// RedisStore persists the session slot in Redis, for deployments where the
// client runs on a host without durable local storage.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore wraps an established Redis client.
func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	encoded, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.client.Set(ctx, s.client.SessionKey(slotKey), string(encoded), 0)
}

func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	raw, err := s.client.Get(ctx, s.client.SessionKey(slotKey))
	if errors.Is(err, redisclient.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.client.SessionKey(slotKey))
}
