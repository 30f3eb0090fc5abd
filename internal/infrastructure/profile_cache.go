package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
)

// ProfileCache is a read-through cache for sanitized profiles. Only the
// sanitized view is stored, so credential fields never reach Redis. A nil
// client disables caching entirely.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, userId string) (*common.UserResult, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, profileKey(userId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var result common.UserResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *ProfileCache) Set(ctx context.Context, userId string, result *common.UserResult) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(userId), data, c.ttl).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, userId string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, profileKey(userId)).Err()
}

func profileKey(userId string) string {
	return "profile:" + userId
}
