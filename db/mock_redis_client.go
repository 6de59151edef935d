package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MockRedisClient simulates a Redis client for testing purposes.
type MockRedisClient struct {
	data    map[string]string
	zsets   map[string]map[string]float64 // key -> member -> score
	mu      sync.RWMutex
	pingErr error
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data:  make(map[string]string),
		zsets: make(map[string]map[string]float64),
	}
}

func (m *MockRedisClient) AddScoredJSON(ctx context.Context, setKey, member string, score float64, dataKey string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.zsets[setKey]; !exists {
		m.zsets[setKey] = make(map[string]float64)
	}
	m.zsets[setKey][member] = score
	m.data[dataKey] = string(jsonData)
	return nil
}

// RangeByScore orders members by score, then lexicographically, like Redis.
func (m *MockRedisClient) RangeByScore(ctx context.Context, key string, min, max float64, offset, count int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.inRange(key, min, max)
	if offset >= int64(len(matched)) {
		return []string{}, nil
	}
	matched = matched[offset:]
	if count >= 0 && count < int64(len(matched)) {
		matched = matched[:count]
	}
	return matched, nil
}

func (m *MockRedisClient) CountByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.inRange(key, min, max))), nil
}

func (m *MockRedisClient) MGet(ctx context.Context, keys ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

// Ping returns the error set by SetPingError, if any.
func (m *MockRedisClient) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingErr
}

func (m *MockRedisClient) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

func (m *MockRedisClient) inRange(key string, min, max float64) []string {
	set := m.zsets[key]
	members := make([]string, 0, len(set))
	for member, score := range set {
		if score >= min && score <= max {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := set[members[i]], set[members[j]]
		if si != sj {
			return si < sj
		}
		return members[i] < members[j]
	})
	return members
}
