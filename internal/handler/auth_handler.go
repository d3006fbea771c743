package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"
	"maths-quest/internal/middleware"
	"maths-quest/internal/service"
	"maths-quest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	oauthStateCookieName = "oauthstate"
	oauthStateTTL        = 10 * time.Minute
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLogin redirects the user to Google's OAuth 2.0 consent screen.
// @Summary Initiate Google OAuth2 login
// @Tags auth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		logger.Get().Error("Failed to generate OAuth state", zap.Error(err))
		return domain.NewInternalError("failed to start login", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google after authentication.
// @Summary Google OAuth2 callback
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State parameter for CSRF protection"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing code or state mismatch"
// @Failure 401 {object} middleware.ErrorResponse "Google rejected the code"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	appLogger := logger.Get()
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		appLogger.Warn("Authorization code missing in Google OAuth callback")
		return domain.NewInvalidInputError("authorization code is missing")
	}
	if receivedState == "" || expectedState == "" || receivedState != expectedState {
		appLogger.Warn("OAuth state mismatch", zap.String("received", receivedState), zap.String("expected", expectedState))
		return domain.NewInvalidInputError("oauth state mismatch or missing")
	}

	tokens, profile, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		appLogger.Error("Failed to handle Google callback", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidAuthState):
			return domain.NewInvalidInputError("oauth state mismatch or missing")
		case errors.Is(err, service.ErrFailedToExchangeToken), errors.Is(err, service.ErrFailedToGetUserInfo):
			return domain.NewError(domain.CodeNotAuthenticated, "google login failed", err)
		}
		return err
	}

	appLogger.Info("Google OAuth callback successful, tokens issued", zap.String("userID", profile.ID))
	return c.JSON(tokens)
}

// RefreshToken issues a new token pair for a valid refresh token.
// @Summary Refresh JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Refresh token invalid or expired"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateRefreshToken(req); len(errs) > 0 {
		return errs
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		logger.Get().Warn("Failed to refresh token", zap.Error(err))
		return err
	}
	return c.JSON(tokens)
}

// Logout godoc
// @Summary Logout user
// @Description Tokens are stateless; the client discards them.
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	logger.Get().Info("User logged out", zap.String("userID", middleware.UserID(c)))
	return c.JSON(dto.MessageResponse{Message: "Successfully logged out"})
}
