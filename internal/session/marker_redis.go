package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	platformredis "motorlane/internal/platform/redis"
	"motorlane/pkg/platform/sentinel"
)

const markerKey = "motorlane:fallback_marker"

// RedisMarkerStore persists the fallback marker in Redis so the admin bypass
// survives process restarts.
type RedisMarkerStore struct {
	client *platformredis.Client
}

func NewRedisMarkerStore(client *platformredis.Client) *RedisMarkerStore {
	return &RedisMarkerStore{client: client}
}

func (s *RedisMarkerStore) Get(ctx context.Context) (FallbackMarker, error) {
	raw, err := s.client.Get(ctx, markerKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return FallbackMarker{}, sentinel.ErrNotFound
		}
		return FallbackMarker{}, fmt.Errorf("get fallback marker: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	var marker FallbackMarker
	if err := json.Unmarshal(raw, &marker); err != nil {
		return FallbackMarker{}, ErrMalformedMarker
	}
	return marker, nil
}

func (s *RedisMarkerStore) Set(ctx context.Context, marker FallbackMarker) error {
	raw, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("marshal fallback marker: %w", err)
	}
	if err := s.client.Set(ctx, markerKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("set fallback marker: %w", err)
	}
	return nil
}

func (s *RedisMarkerStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, markerKey).Err(); err != nil {
		return fmt.Errorf("remove fallback marker: %w", err)
	}
	return nil
}
