// Package snapshotstore keeps the timing queue snapshot in Redis as a single
// JSON document.
package snapshotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "fulfillment:queue:snapshot"

// RedisSnapshotStore implements ports.SnapshotStore.
type RedisSnapshotStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisSnapshotStore stores the snapshot under key, or DefaultKey when key is empty.
func NewRedisSnapshotStore(client redis.Cmdable, key string) *RedisSnapshotStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisSnapshotStore{client: client, key: key}
}

// Load reads the snapshot. A missing key is not an error.
func (s *RedisSnapshotStore) Load(ctx context.Context) (ports.QueueSnapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.QueueSnapshot{}, false, nil
	}
	if err != nil {
		return ports.QueueSnapshot{}, false, fmt.Errorf("read snapshot %s: %w", s.key, err)
	}

	var snapshot ports.QueueSnapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return ports.QueueSnapshot{}, true, fmt.Errorf("%w: %w", ports.ErrSnapshotCorrupt, err)
	}
	return snapshot, true, nil
}

// Save overwrites the snapshot without expiry.
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot ports.QueueSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err = s.client.Set(ctx, s.key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	return nil
}
