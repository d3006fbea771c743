package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockQuizService struct {
	StartSessionFunc func(ctx context.Context, userID, topicID string) (*dto.SessionResponse, error)
	GetSessionFunc   func(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	SelectOptionFunc func(ctx context.Context, userID, sessionID string, optionIndex int) (*dto.AnswerResponse, error)
	ToggleHintFunc   func(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	AdvanceFunc      func(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
}

func (m *MockQuizService) StartSession(ctx context.Context, userID, topicID string) (*dto.SessionResponse, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, userID, topicID)
	}
	panic("MockQuizService.StartSessionFunc not implemented")
}

func (m *MockQuizService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, userID, sessionID)
	}
	panic("MockQuizService.GetSessionFunc not implemented")
}

func (m *MockQuizService) SelectOption(ctx context.Context, userID, sessionID string, optionIndex int) (*dto.AnswerResponse, error) {
	if m.SelectOptionFunc != nil {
		return m.SelectOptionFunc(ctx, userID, sessionID, optionIndex)
	}
	panic("MockQuizService.SelectOptionFunc not implemented")
}

func (m *MockQuizService) ToggleHint(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	if m.ToggleHintFunc != nil {
		return m.ToggleHintFunc(ctx, userID, sessionID)
	}
	panic("MockQuizService.ToggleHintFunc not implemented")
}

func (m *MockQuizService) Advance(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	if m.AdvanceFunc != nil {
		return m.AdvanceFunc(ctx, userID, sessionID)
	}
	panic("MockQuizService.AdvanceFunc not implemented")
}

type MockProfileService struct {
	LoadProfileFunc    func(ctx context.Context, userID string) (*domain.Profile, error)
	GetCurrentUserFunc func(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	UpdateProfileFunc  func(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	SelectThemeFunc    func(ctx context.Context, userID, theme string) (*dto.SelectThemeResponse, error)
	SaveProgressFunc   func(ctx context.Context, userID, topicID string, rec domain.ProgressRecord) error
}

func (m *MockProfileService) LoadProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.LoadProfileFunc != nil {
		return m.LoadProfileFunc(ctx, userID)
	}
	panic("MockProfileService.LoadProfileFunc not implemented")
}

func (m *MockProfileService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	if m.GetCurrentUserFunc != nil {
		return m.GetCurrentUserFunc(ctx, userID)
	}
	panic("MockProfileService.GetCurrentUserFunc not implemented")
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, req)
	}
	panic("MockProfileService.UpdateProfileFunc not implemented")
}

func (m *MockProfileService) SelectTheme(ctx context.Context, userID, theme string) (*dto.SelectThemeResponse, error) {
	if m.SelectThemeFunc != nil {
		return m.SelectThemeFunc(ctx, userID, theme)
	}
	panic("MockProfileService.SelectThemeFunc not implemented")
}

func (m *MockProfileService) SaveProgress(ctx context.Context, userID, topicID string, rec domain.ProgressRecord) error {
	if m.SaveProgressFunc != nil {
		return m.SaveProgressFunc(ctx, userID, topicID, rec)
	}
	panic("MockProfileService.SaveProgressFunc not implemented")
}

type MockTopicService struct {
	ListTopicsFunc func(ctx context.Context) ([]dto.TopicResponse, error)
	ThemesFunc     func() []dto.ThemeResponse
}

func (m *MockTopicService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockTopicService.ListTopicsFunc not implemented")
}

func (m *MockTopicService) Themes() []dto.ThemeResponse {
	if m.ThemesFunc != nil {
		return m.ThemesFunc()
	}
	panic("MockTopicService.ThemesFunc not implemented")
}

type MockHomeService struct {
	HomeFunc func(ctx context.Context, userID string) (*dto.HomeResponse, error)
}

func (m *MockHomeService) Home(ctx context.Context, userID string) (*dto.HomeResponse, error) {
	if m.HomeFunc != nil {
		return m.HomeFunc(ctx, userID)
	}
	panic("MockHomeService.HomeFunc not implemented")
}

type MockAuthService struct {
	GetGoogleLoginURLFunc    func(state string) string
	HandleGoogleCallbackFunc func(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, *domain.Profile, error)
	ValidateJWTFunc          func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWTFunc            func(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error)
	RefreshTokenFunc         func(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	if m.GetGoogleLoginURLFunc != nil {
		return m.GetGoogleLoginURLFunc(state)
	}
	panic("MockAuthService.GetGoogleLoginURLFunc not implemented")
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, *domain.Profile, error) {
	if m.HandleGoogleCallbackFunc != nil {
		return m.HandleGoogleCallbackFunc(ctx, code, receivedState, expectedState)
	}
	panic("MockAuthService.HandleGoogleCallbackFunc not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	if m.CreateJWTFunc != nil {
		return m.CreateJWTFunc(ctx, userID, ttl, tokenType)
	}
	panic("MockAuthService.CreateJWTFunc not implemented")
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshTokenString)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}

// --- Helpers ---

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

// asUser stands in for the JWT middleware.
func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.UserIDKey, userID)
		}
		return c.Next()
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
