package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// GeoRedisClient implements RedisClient on top of go-redis.
type GeoRedisClient struct {
	client *redis.Client
}

// NewGeoRedisClient wraps client after checking the connection.
func NewGeoRedisClient(ctx context.Context, client *redis.Client) (*GeoRedisClient, error) {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	slog.Info("connected to redis", "addr", client.Options().Addr)

	return &GeoRedisClient{client: client}, nil
}

// AddScoredJSON stores data as JSON under dataKey and adds member to the
// sorted set setKey with the given score, in one transaction.
func (r *GeoRedisClient) AddScoredJSON(ctx context.Context, setKey, member string, score float64, dataKey string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, dataKey, jsonData, 0)
		pipe.ZAdd(ctx, setKey, &redis.Z{Score: score, Member: member})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add member %s: %w", member, err)
	}
	return nil
}

// RangeByScore returns up to count members of key with min <= score <= max,
// skipping the first offset.
func (r *GeoRedisClient) RangeByScore(ctx context.Context, key string, min, max float64, offset, count int64) ([]string, error) {
	members, err := r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:    formatScore(min),
		Max:    formatScore(max),
		Offset: offset,
		Count:  count,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range %s by score: %w", key, err)
	}
	return members, nil
}

func (r *GeoRedisClient) CountByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	n, err := r.client.ZCount(ctx, key, formatScore(min), formatScore(max)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s by score: %w", key, err)
	}
	return n, nil
}

// MGet returns the values of keys in order; missing keys yield "".
func (r *GeoRedisClient) MGet(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget %d keys: %w", len(keys), err)
	}

	out := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out, nil
}

func (r *GeoRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *GeoRedisClient) Close() error {
	return r.client.Close()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
