package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "webhook:replay:"

// ReplayStore keeps short-lived "seen" markers for webhook event ids.
type ReplayStore struct {
	rdb *redis.Client
}

func NewReplayStore(rdb *redis.Client) *ReplayStore {
	return &ReplayStore{rdb: rdb}
}

// SetIfAbsent writes the marker with SET NX EX, so check and set happen in
// one round trip on the server.
func (s *ReplayStore) SetIfAbsent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, replayKey(eventID), true, ttl).Result()
}

// Seen reports whether a marker for eventID is present.
func (s *ReplayStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, replayKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *ReplayStore) Delete(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, replayKey(eventID)).Err()
}

func replayKey(eventID string) string {
	return replayKeyPrefix + eventID
}
