package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/brickbid/brickbid-go/models"
)

// DefaultRedisKey is the single key a RedisStore uses when none is given.
const DefaultRedisKey = "brickbid:credential"

// RedisStore keeps the credential record under one Redis key, for setups
// where several terminals share a session.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an established Redis client. An empty key selects
// DefaultRedisKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// DialRedis connects to the Redis server at addr and verifies the
// connection with a ping.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("credstore: connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Load(ctx context.Context) (models.Credential, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Credential{}, ErrNotFound
		}
		return models.Credential{}, fmt.Errorf("credstore: get %s: %w", s.key, err)
	}

	var cred models.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return models.Credential{}, fmt.Errorf("credstore: decode %s: %w", s.key, err)
	}
	return cred, nil
}

func (s *RedisStore) Save(ctx context.Context, cred models.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("credstore: encode credential: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("credstore: set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("credstore: del %s: %w", s.key, err)
	}
	return nil
}
