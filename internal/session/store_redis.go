package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenKeyPrefix = "session:access_token:"

// RedisStore is the redis-backed session store for distributed deployments
// where any instance may serve the follow-up request.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a redis-backed session store. The client's
// lifecycle is managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveAccessToken(ctx context.Context, runID, accessToken string, ttl time.Duration) error {
	return s.client.Set(ctx, accessTokenKeyPrefix+runID, accessToken, ttl).Err()
}

func (s *RedisStore) AccessToken(ctx context.Context, runID string) (string, bool, error) {
	token, err := s.client.Get(ctx, accessTokenKeyPrefix+runID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}
