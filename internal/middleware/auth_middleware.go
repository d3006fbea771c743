package middleware

import (
	"context"
	"strings"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals

	accessTokenType = "access"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// UserID returns the authenticated user, or "" for visitors.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// bearerClaims returns the claims of a valid access token, or an error
// message suitable for the client.
func bearerClaims(c *fiber.Ctx, validator TokenValidator) (*dto.AuthClaims, string) {
	authHeader := c.Get(AuthorizationHeader)
	if authHeader == "" {
		return nil, "Authorization header is missing"
	}
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return nil, "Authorization scheme is not Bearer"
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
	if tokenString == "" {
		return nil, "Token is empty"
	}
	claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
	if err != nil {
		return nil, "Invalid or expired token"
	}
	if claims.TokenType != accessTokenType {
		return nil, "Invalid token type: expected access token"
	}
	return claims, ""
}

// Protected requires a valid access token and stores the user ID in locals.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, reason := bearerClaims(c, validator)
		if claims == nil {
			return domain.NewError(domain.CodeNotAuthenticated, reason, nil)
		}
		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid access token is present and
// otherwise lets the request through as a visitor.
func OptionalAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(AuthorizationHeader) == "" {
			return c.Next()
		}
		claims, reason := bearerClaims(c, validator)
		if claims == nil {
			logger.Get().Debug("OptionalAuth: proceeding as anonymous", zap.String("reason", reason))
			return c.Next()
		}
		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}
