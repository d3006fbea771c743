package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo is the payload of Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// AuthClaims are the JWT claims issued by the auth service.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// ProgressResponse is one topic's last attempt.
type ProgressResponse struct {
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	LastAttempt time.Time `json:"last_attempt"`
}

// UserProfileResponse is the signed-in user's profile
// @Description User profile
type UserProfileResponse struct {
	ID          string                      `json:"id"`
	Email       string                      `json:"email"`
	DisplayName string                      `json:"display_name,omitempty"`
	FirstName   string                      `json:"first_name,omitempty"`
	Theme       string                      `json:"theme,omitempty"`
	Progress    map[string]ProgressResponse `json:"progress"`
}

// UpdateProfileRequest is a partial profile update; omitted fields are kept.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Theme       *string `json:"theme"`
}

// SelectThemeRequest picks the narrative theme.
type SelectThemeRequest struct {
	Theme string `json:"theme"`
}

// SelectThemeResponse either carries the updated profile or, for a
// visitor, asks them to log in first.
type SelectThemeResponse struct {
	LoginRequired bool                 `json:"login_required"`
	LoginURL      string               `json:"login_url,omitempty"`
	User          *UserProfileResponse `json:"user,omitempty"`
}

// TokenResponse is returned after login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a generic message reply.
type MessageResponse struct {
	Message string `json:"message"`
}
