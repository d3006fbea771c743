package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maths-quest/internal/cache"
	"maths-quest/internal/domain"
)

// cacheSessionStore keeps quiz sessions as JSON in the cache. The TTL is
// refreshed on every save.
type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewCacheSessionStore creates a SessionStore backed by c.
func NewCacheSessionStore(c domain.Cache, ttl time.Duration) domain.SessionStore {
	return &cacheSessionStore{cache: c, ttl: ttl}
}

func (s *cacheSessionStore) Get(ctx context.Context, id string) (*domain.QuizSession, error) {
	raw, err := s.cache.Get(ctx, cache.SessionKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.NewInternalError("failed to load quiz session", err)
	}

	var session domain.QuizSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.NewInternalError("failed to decode quiz session", err)
	}
	return &session, nil
}

func (s *cacheSessionStore) Save(ctx context.Context, session *domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode quiz session: %w", err)
	}
	if err := s.cache.Set(ctx, cache.SessionKey(session.ID), string(data), s.ttl); err != nil {
		return domain.NewInternalError("failed to store quiz session", err)
	}
	return nil
}
