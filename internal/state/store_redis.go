package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/thep200/github-code-crawler/internal/model"
)

// RedisStore lưu toàn bộ state thành một chuỗi JSON tại <prefix>:<key>.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, prefix, key string) *RedisStore {
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Load(ctx context.Context) (*model.CrawlState, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.NewCrawlState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	state := model.NewCrawlState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", s.key, err)
	}
	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *model.CrawlState) error {
	data, err := encodeJSON(state, false)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
