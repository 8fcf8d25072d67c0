package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mohit83k/radiusd/internal/model"
)

const (
	clientKeyPrefix = "radius:bas:"
	userKeyPrefix   = "radius:user:"
)

// LookupClient reads radius:bas:{ip}. A missing key is not an error.
func (r *RedisStore) LookupClient(ctx context.Context, ip string) (*model.Client, error) {
	var c model.Client
	found, err := r.getJSON(ctx, clientKeyPrefix+ip, &c)
	if err != nil || !found {
		return nil, err
	}
	if c.IP == "" {
		c.IP = ip
	}
	return &c, nil
}

// LookupUser reads radius:user:{name}. A missing key is not an error.
func (r *RedisStore) LookupUser(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	found, err := r.getJSON(ctx, userKeyPrefix+name, &u)
	if err != nil || !found {
		return nil, err
	}
	if u.Name == "" {
		u.Name = name
	}
	return &u, nil
}

func (r *RedisStore) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
