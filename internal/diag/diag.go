// Package diag keeps a short-lived trail of widget runtime events keyed
// by correlation id, so support can see what a host page reported
// without asking the operator to reproduce anything.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"tablo-backend/internal/protocol"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	eventsKeyPrefix = "diag:events:"

	// maxEvents caps the trail per correlation id; a chatty widget must
	// not grow an unbounded list.
	maxEvents = 200
)

// DefaultTTL is how long a correlation trail outlives its last event.
const DefaultTTL = 24 * time.Hour

// Event is one runtime report as received from a host page: the
// protocol message plus the origin the reporting runtime saw and the
// ingest timestamp.
type Event struct {
	protocol.Message
	Origin     string    `json:"origin,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

type Store interface {
	Append(ctx context.Context, event Event) error
	Recent(ctx context.Context, correlationID string) ([]Event, error)
}

// RedisStore persists event trails in Redis lists with TTL eviction.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func eventsKey(correlationID string) string {
	return eventsKeyPrefix + correlationID
}

func (s *RedisStore) Append(ctx context.Context, event Event) error {
	if event.CorrelationID == "" {
		return fmt.Errorf("diag append: correlationId required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("diag append: marshal event: %w", err)
	}

	key := eventsKey(event.CorrelationID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -maxEvents, -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("diag append: redis write: %w", err)
	}

	countStored(string(event.Type))
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, correlationID string) ([]Event, error) {
	if correlationID == "" {
		return nil, fmt.Errorf("diag recent: correlationId required")
	}

	raw, err := s.client.LRange(ctx, eventsKey(correlationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("diag recent: redis read: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			log.Printf("diag: skipping unreadable event for %s: %v", correlationID, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
