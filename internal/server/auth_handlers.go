package server

import (
	"encoding/json"
	"time"

	"moodmate/internal/middleware"
	"moodmate/internal/models"
	"moodmate/internal/service"
	"moodmate/internal/token"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		ProfileImage string `json:"profileImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.authService.Signup(c.Context(), service.SignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"user":         newUserView(result.User),
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":         newUserView(result.User),
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// Refresh handles POST /api/auth/refresh. It exchanges a valid refresh token
// for a new access token; the refresh token itself is not rotated.
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	accessToken, err := s.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusOK, "Token refreshed successfully", fiber.Map{
		"accessToken": accessToken,
	})
}

// GetCurrentUser handles GET /api/auth/me.
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.authService.GetCurrentUser(c.Context(), userID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusOK, "User fetched successfully", fiber.Map{
		"user": newUserView(user),
	})
}

// UpdateProfile handles PUT /api/auth/profile. Fields absent from the body are
// left untouched; profileImage sent as null or an empty string clears the
// stored image.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// profileImage is bound as raw JSON so an explicit null (clear) is
	// distinguishable from the key being absent (keep).
	var req struct {
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		ProfileImage json.RawMessage `json:"profileImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	var profileImage *string
	if len(req.ProfileImage) > 0 {
		var img string
		if string(req.ProfileImage) != "null" {
			if err := json.Unmarshal(req.ProfileImage, &img); err != nil {
				return models.RespondError(c,
					models.NewValidationError("Invalid request body"))
			}
		}
		profileImage = &img
	}

	user, err := s.authService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		ProfileImage: profileImage,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"user": newUserView(user),
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so logout is
// primarily client-side; when Redis is available the access token's JTI is
// blacklisted for the remainder of its lifetime.
func (s *Server) Logout(c *fiber.Ctx) error {
	if s.redis != nil {
		if claims, ok := c.Locals("claims").(*token.Claims); ok && claims.ID != "" && claims.ExpiresAt != nil {
			if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
				if err := s.redis.Set(c.Context(), "blacklist:"+claims.ID, "1", ttl).Err(); err != nil {
					middleware.Logger.WarnContext(c.UserContext(),
						"failed to blacklist token on logout", "error", err)
				}
			}
		}
	}

	return models.RespondData(c, fiber.StatusOK, "Logout successful", nil)
}
