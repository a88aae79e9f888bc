// Package sessions persists per-conversation engine state between
// turns. The engine itself is stateless, so whichever store the caller
// wires in is the conversation's only memory.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
)

// DefaultTTL bounds how long an idle conversation keeps its state.
const DefaultTTL = 24 * time.Hour

// ErrNotFound reports an unknown or expired conversation.
var ErrNotFound = errors.New("sessions: conversation not found")

// Store loads and saves conversation state keyed by conversation ID.
type Store interface {
	Save(ctx context.Context, conversationID string, state conversation.State) error
	Load(ctx context.Context, conversationID string) (conversation.State, error)
}

// RedisStore keeps state in Redis with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed store. A zero ttl uses DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("sessions: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("sunsweeper.internal.sessions")
	}
	return &RedisStore{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisStore) Save(ctx context.Context, conversationID string, state conversation.State) error {
	ctx, span := s.tracer.Start(ctx, "sessions.save")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("sessions: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(conversationID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("sessions: failed to persist state: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, conversationID string) (conversation.State, error) {
	ctx, span := s.tracer.Start(ctx, "sessions.load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return conversation.State{}, ErrNotFound
		}
		span.RecordError(err)
		return conversation.State{}, fmt.Errorf("sessions: failed to load state: %w", err)
	}

	var state conversation.State
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return conversation.State{}, fmt.Errorf("sessions: failed to decode state: %w", err)
	}
	return state, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
