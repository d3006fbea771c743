package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"maths-quest/internal/cache"
	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"

	"go.uber.org/zap"
)

// TopicService serves the topic and theme catalogues.
type TopicService interface {
	ListTopics(ctx context.Context) ([]dto.TopicResponse, error)
	Themes() []dto.ThemeResponse
}

type topicServiceImpl struct {
	topics domain.TopicRepository
	cache  domain.Cache
	ttl    time.Duration
}

// NewTopicService creates a new instance of TopicService. The topic list is
// cached for ttl when c is not nil.
func NewTopicService(topics domain.TopicRepository, c domain.Cache, ttl time.Duration) TopicService {
	return &topicServiceImpl{topics: topics, cache: c, ttl: ttl}
}

func (s *topicServiceImpl) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	l := logger.Get()
	key := cache.TopicListKey()

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		if err == nil {
			var cached []dto.TopicResponse
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
			l.Warn("discarding malformed topic list cache entry", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("topic list cache read failed", zap.Error(err))
		}
	}

	topics, err := s.topics.ListTopics(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list topics", err)
	}
	resp := toTopicResponses(topics)

	if s.cache != nil {
		if data, jsonErr := json.Marshal(resp); jsonErr == nil {
			if setErr := s.cache.Set(ctx, key, string(data), s.ttl); setErr != nil {
				l.Warn("topic list cache write failed", zap.Error(setErr))
			}
		}
	}
	return resp, nil
}

func (s *topicServiceImpl) Themes() []dto.ThemeResponse {
	return toThemeResponses(domain.Themes())
}
