package service

import (
	"context"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"

	"golang.org/x/sync/errgroup"
)

// HomeService assembles the landing screen.
type HomeService interface {
	Home(ctx context.Context, userID string) (*dto.HomeResponse, error)
}

type homeServiceImpl struct {
	profiles ProfileService
	topics   TopicService
}

// NewHomeService creates a new instance of HomeService.
func NewHomeService(profiles ProfileService, topics TopicService) HomeService {
	return &homeServiceImpl{profiles: profiles, topics: topics}
}

// Home loads the profile and the topic list concurrently. Topics are only
// included once the user has picked a theme.
func (s *homeServiceImpl) Home(ctx context.Context, userID string) (*dto.HomeResponse, error) {
	var (
		profile *domain.Profile
		topics  []dto.TopicResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.LoadProfile(gctx, userID)
		profile = p
		return err
	})
	g.Go(func() error {
		t, err := s.topics.ListTopics(gctx)
		topics = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.HomeResponse{
		Theme:      domain.LayoutThemeDefault,
		NeedsTheme: !profile.HasTheme(),
		Themes:     s.topics.Themes(),
		Topics:     []dto.TopicResponse{},
	}
	if profile != nil {
		resp.User = toProfileResponse(profile)
	}
	if profile.HasTheme() {
		resp.Theme = profile.Theme
		resp.Topics = topics
	}
	return resp, nil
}
