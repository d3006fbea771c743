package service

import (
	"context"
	"strings"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"

	"go.uber.org/zap"
)

const maxDisplayNameLength = 100

// ProfileService defines the operations on the signed-in user's profile.
type ProfileService interface {
	// LoadProfile returns (nil, nil) for visitors and unknown users.
	LoadProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	SelectTheme(ctx context.Context, userID, theme string) (*dto.SelectThemeResponse, error)
	SaveProgress(ctx context.Context, userID, topicID string, rec domain.ProgressRecord) error
}

type profileServiceImpl struct {
	profiles domain.ProfileRepository
	loginURL string
}

// NewProfileService creates a new instance of ProfileService. loginURL is
// handed to visitors who try to pick a theme.
func NewProfileService(profiles domain.ProfileRepository, loginURL string) ProfileService {
	return &profileServiceImpl{profiles: profiles, loginURL: loginURL}
}

func (s *profileServiceImpl) LoadProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, nil
	}
	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user profile", err)
	}
	return profile, nil
}

func (s *profileServiceImpl) GetCurrentUser(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return toProfileResponse(profile), nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var upd domain.ProfileUpdate
	var verrs domain.ValidationErrors
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		switch {
		case name == "":
			verrs = append(verrs, domain.NewMissingFieldError("display_name"))
		case len([]rune(name)) > maxDisplayNameLength:
			verrs = append(verrs, domain.NewOutOfRangeError("display_name", len([]rune(name)), 1, maxDisplayNameLength))
		default:
			upd.DisplayName = &name
		}
	}
	if req.Theme != nil {
		if !domain.IsValidTheme(*req.Theme) {
			verrs = append(verrs, domain.NewInvalidFormatError("theme", *req.Theme))
		} else {
			theme := *req.Theme
			upd.Theme = &theme
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	profile, err := s.profiles.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, domain.NewInternalError("failed to update profile", err)
	}
	return toProfileResponse(profile), nil
}

// SelectTheme stores the theme for a signed-in user. Visitors get a
// login prompt and nothing is written.
func (s *profileServiceImpl) SelectTheme(ctx context.Context, userID, theme string) (*dto.SelectThemeResponse, error) {
	if !domain.IsValidTheme(theme) {
		return nil, domain.NewInvalidThemeError(theme)
	}

	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		logger.Get().Debug("theme selected without login", zap.String("theme", theme))
		return &dto.SelectThemeResponse{LoginRequired: true, LoginURL: s.loginURL}, nil
	}

	updated, err := s.profiles.UpdateProfile(ctx, profile.ID, domain.ProfileUpdate{Theme: &theme})
	if err != nil {
		return nil, domain.NewInternalError("failed to save theme", err)
	}
	logger.Get().Info("theme selected", zap.String("userID", profile.ID), zap.String("theme", theme))
	return &dto.SelectThemeResponse{User: toProfileResponse(updated)}, nil
}

func (s *profileServiceImpl) SaveProgress(ctx context.Context, userID, topicID string, rec domain.ProgressRecord) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if topicID == "" {
		return domain.NewInvalidInputError("topic id is required")
	}
	if rec.Score < 0 || rec.Score > rec.Total {
		return domain.NewInvalidInputError("score must be between 0 and total")
	}
	return s.profiles.SaveProgress(ctx, userID, topicID, rec)
}
