package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iamasit07/connectfour/internal/service/game"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "connectfour:game:"

// Connect opens a client and pings it. The caller decides whether a failed
// ping is fatal; the server keeps running without the cache.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	log.Println("[REDIS] Connected successfully")
	return client, nil
}

// SnapshotCache stores live game snapshots as JSON with a TTL
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(gameID string) string {
	return snapshotKeyPrefix + gameID
}

func (c *SnapshotCache) SaveSnapshot(ctx context.Context, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.GameID), data, c.ttl).Err()
}

func (c *SnapshotCache) LoadSnapshot(ctx context.Context, gameID string) (*game.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (c *SnapshotCache) DeleteSnapshot(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, snapshotKey(gameID)).Err()
}
