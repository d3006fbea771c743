package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"maths-quest/internal/cache"
	"maths-quest/internal/domain"
	"maths-quest/internal/logger"

	"go.uber.org/zap"
)

// cachedQuestionRepository decorates a QuestionRepository with a
// read-through cache of (topic, theme) pools. Cache failures fall back to
// the wrapped repository.
type cachedQuestionRepository struct {
	next  domain.QuestionRepository
	cache domain.Cache
	ttl   time.Duration
}

// NewCachedQuestionRepository wraps next. A nil cache disables caching.
func NewCachedQuestionRepository(next domain.QuestionRepository, c domain.Cache, ttl time.Duration) domain.QuestionRepository {
	if c == nil {
		return next
	}
	return &cachedQuestionRepository{next: next, cache: c, ttl: ttl}
}

func (r *cachedQuestionRepository) ListQuestionsByTopicAndTheme(ctx context.Context, topicID, theme string) ([]domain.Question, error) {
	l := logger.Get()
	key := cache.QuestionPoolKey(topicID, theme)

	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var pool []domain.Question
		jsonErr := json.Unmarshal([]byte(raw), &pool)
		if jsonErr == nil {
			return pool, nil
		}
		l.Warn("discarding malformed question pool cache entry", zap.String("key", key), zap.Error(jsonErr))
	case errors.Is(err, domain.ErrCacheMiss):
	default:
		l.Warn("question pool cache read failed", zap.String("key", key), zap.Error(err))
	}

	pool, err := r.next.ListQuestionsByTopicAndTheme(ctx, topicID, theme)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(pool); jsonErr == nil {
		if setErr := r.cache.Set(ctx, key, string(data), r.ttl); setErr != nil {
			l.Warn("question pool cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return pool, nil
}

// SaveQuestion writes through and drops the affected pool.
func (r *cachedQuestionRepository) SaveQuestion(ctx context.Context, q *domain.Question) error {
	if err := r.next.SaveQuestion(ctx, q); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, cache.QuestionPoolKey(q.TopicID, q.Theme)); err != nil {
		logger.Get().Warn("failed to invalidate question pool", zap.String("topic_id", q.TopicID), zap.Error(err))
	}
	return nil
}
