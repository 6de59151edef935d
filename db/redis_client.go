package db

import "context"

// RedisClient is the subset of Redis used by the airport index: a sorted set
// of member ids scored by one coordinate plus a JSON document per member.
type RedisClient interface {
	AddScoredJSON(ctx context.Context, setKey, member string, score float64, dataKey string, data interface{}) error
	RangeByScore(ctx context.Context, key string, min, max float64, offset, count int64) ([]string, error)
	CountByScore(ctx context.Context, key string, min, max float64) (int64, error)
	MGet(ctx context.Context, keys ...string) ([]string, error)
	Ping(ctx context.Context) error
}
