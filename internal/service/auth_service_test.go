package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"maths-quest/internal/config"
	"maths-quest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:       "testsecretkeydontuseinproduction32bytes!",
	AccessTokenTTL:  15 * time.Minute,
	RefreshTokenTTL: 7 * 24 * time.Hour,
}

func newTestAuthService(t *testing.T, repo *MockProfileRepository) *authServiceImpl {
	t.Helper()
	svc, err := NewAuthService(repo, testJWTConfig, config.GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8090/api/auth/google/callback",
	})
	require.NoError(t, err)
	return svc.(*authServiceImpl)
}

func TestNewAuthService_ShortSecret(t *testing.T) {
	_, err := NewAuthService(new(MockProfileRepository), config.JWTConfig{SecretKey: "short"}, config.GoogleOAuthConfig{})
	assert.Error(t, err)
}

func TestAuthService_JWTRoundTrip(t *testing.T) {
	svc := newTestAuthService(t, new(MockProfileRepository))
	ctx := context.Background()

	token, err := svc.CreateJWT(ctx, "user1", time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	claims, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)

	expired, err := svc.CreateJWT(ctx, "user1", -time.Minute, tokenTypeAccess)
	require.NoError(t, err)
	_, err = svc.ValidateJWT(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	other := newTestAuthService(t, new(MockProfileRepository))
	other.jwtCfg.SecretKey = "another-secret-key-that-is-32-bytes-long"
	_, err = other.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_RefreshToken(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	repo.On("GetProfileByID", mock.Anything, "user1").Return(&domain.Profile{ID: "user1"}, nil)
	refresh, err := svc.CreateJWT(ctx, "user1", testJWTConfig.RefreshTokenTTL, tokenTypeRefresh)
	require.NoError(t, err)

	tokens, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	claims, err := svc.ValidateJWT(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
}

func TestAuthService_RefreshToken_Rejections(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	access, _ := svc.CreateJWT(ctx, "user1", time.Minute, tokenTypeAccess)
	_, err := svc.RefreshToken(ctx, access)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	repo.On("GetProfileByID", mock.Anything, "ghost").Return(nil, nil)
	ghost, _ := svc.CreateJWT(ctx, "ghost", time.Minute, tokenTypeRefresh)
	_, err = svc.RefreshToken(ctx, ghost)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)

	dbErr := errors.New("some database connection error")
	repo.On("GetProfileByID", mock.Anything, "broken").Return(nil, dbErr)
	broken, _ := svc.CreateJWT(ctx, "broken", time.Minute, tokenTypeRefresh)
	_, err = svc.RefreshToken(ctx, broken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
	assert.ErrorIs(t, err, dbErr)
}

func TestAuthService_GetGoogleLoginURL(t *testing.T) {
	svc := newTestAuthService(t, new(MockProfileRepository))

	u, err := url.Parse(svc.GetGoogleLoginURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
}

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, userInfo map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "google-access", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer google-access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func pointAtFake(svc *authServiceImpl, srv *httptest.Server) {
	svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"
}

func TestAuthService_HandleGoogleCallback_CreatesUser(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := newTestAuthService(t, repo)
	pointAtFake(svc, fakeGoogle(t, map[string]any{"id": "g-42", "email": "ada@example.com", "name": "Ada Lovelace"}))

	repo.On("GetProfileByGoogleID", mock.Anything, "g-42").Return(nil, nil)
	repo.On("CreateProfile", mock.Anything, mock.AnythingOfType("*domain.Profile")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Profile).ID = "user-new" }).
		Return(nil)

	tokens, profile, err := svc.HandleGoogleCallback(context.Background(), "code", "s1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "user-new", profile.ID)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName)
	assert.False(t, profile.HasTheme())

	claims, err := svc.ValidateJWT(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-new", claims.UserID)
	repo.AssertExpectations(t)
}

func TestAuthService_HandleGoogleCallback_ExistingUser(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := newTestAuthService(t, repo)
	pointAtFake(svc, fakeGoogle(t, map[string]any{"id": "g-42", "email": "ada@example.com"}))

	repo.On("GetProfileByGoogleID", mock.Anything, "g-42").Return(&domain.Profile{ID: "user1", Theme: domain.ThemeSpace}, nil)

	_, profile, err := svc.HandleGoogleCallback(context.Background(), "code", "s1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "user1", profile.ID)
	repo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestAuthService_HandleGoogleCallback_Failures(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := newTestAuthService(t, repo)

	_, _, err := svc.HandleGoogleCallback(context.Background(), "code", "s1", "s2")
	assert.ErrorIs(t, err, ErrInvalidAuthState)

	pointAtFake(svc, fakeGoogle(t, map[string]any{"id": "g-42"}))
	_, _, err = svc.HandleGoogleCallback(context.Background(), "code", "s1", "s1")
	assert.ErrorIs(t, err, ErrFailedToGetUserInfo)

	pointAtFake(svc, fakeGoogle(t, map[string]any{"id": "g-7", "email": "x@example.com"}))
	repo.On("GetProfileByGoogleID", mock.Anything, "g-7").Return(nil, nil)
	repo.On("CreateProfile", mock.Anything, mock.Anything).Return(errors.New("ORA-00001: unique constraint violated"))
	_, _, err = svc.HandleGoogleCallback(context.Background(), "code", "s1", "s1")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}
