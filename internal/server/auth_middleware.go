package server

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"moodmate/internal/middleware"
	"moodmate/internal/models"
	"moodmate/internal/token"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns the authentication middleware. It verifies the bearer
// access token, rejects revoked tokens, and stores the resolved user identity
// in locals and the request context for downstream handlers.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				return models.RespondError(c, models.NewTokenExpiredError())
			}
			return models.RespondError(c, models.NewTokenInvalidError())
		}

		// Revocation check against the logout blacklist
		if s.redis != nil && claims.ID != "" {
			revoked, err := s.redis.Exists(c.Context(), "blacklist:"+claims.ID).Result()
			if err == nil && revoked > 0 {
				return models.RespondError(c, models.NewTokenInvalidError())
			}
		}

		userID, err := strconv.ParseUint(claims.UserID, 10, 32)
		if err != nil {
			return models.RespondError(c, models.NewTokenInvalidError())
		}

		c.Locals("userID", uint(userID))
		c.Locals("claims", claims)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
