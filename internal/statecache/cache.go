// Package statecache keeps a per-conversation snapshot of the engine's
// collected slots in Redis so hot conversations skip a full history replay.
// The cache is strictly an optimization: any miss, mismatch or decode error
// falls back to replaying the history, which remains the source of truth.
package statecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is the cached outcome of the previous turn.
type Snapshot struct {
	Service         string            `json:"service"`
	Collected       map[string]string `json:"collected"`
	MessageCount    int               `json:"message_count"`
	LastQuestionKey string            `json:"last_question_key"`
}

// Cache stores conversation snapshots with a sliding TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a cache on the given Redis address. TTL <= 0 defaults to one
// hour.
func New(addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

func key(conversationID string) string {
	return "quotebot:conv:" + conversationID
}

// Get loads the snapshot for a conversation. The second return is false on
// a miss or any decode problem.
func (c *Cache) Get(ctx context.Context, conversationID string) (Snapshot, bool) {
	raw, err := c.client.Get(ctx, key(conversationID)).Bytes()
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false
	}
	if snap.Collected == nil {
		snap.Collected = map[string]string{}
	}
	return snap, true
}

// Put stores the snapshot for a conversation.
func (c *Cache) Put(ctx context.Context, conversationID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key(conversationID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for a conversation.
func (c *Cache) Invalidate(ctx context.Context, conversationID string) error {
	return c.client.Del(ctx, key(conversationID)).Err()
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
