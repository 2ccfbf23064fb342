// Package service implements the application's business logic orchestration.
package service

import (
	"context"
	"errors"
	"strconv"

	"moodmate/internal/models"
	"moodmate/internal/repository"
	"moodmate/internal/token"
	"moodmate/internal/validation"
)

// AuthService orchestrates signup, login, refresh, and profile flows over the
// user store and the token service.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Service
}

// NewAuthService returns an AuthService backed by the given store and token service.
func NewAuthService(users repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	ProfileImage string
}

// UpdateProfileInput carries a partial profile update. ProfileImage is a
// pointer so an explicitly cleared image is distinguishable from an omitted one.
type UpdateProfileInput struct {
	UserID       uint
	Name         string
	Email        string
	ProfileImage *string
}

// AuthResult is the outcome of a successful signup or login.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Signup registers a new account and issues a token pair.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateKeyError("email")
	}

	// Hashing happens in the model's BeforeSave hook.
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     in.Password,
		ProfileImage: in.ProfileImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issuePair(user)
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.ComparePassword(password) {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	return s.issuePair(user)
}

// Refresh verifies a refresh token and issues a new access token for the
// user it names. The identity is re-fetched from the store; only the
// identifier is trusted from the claim. The refresh token is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", models.NewValidationError("Refresh token is required")
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return "", models.NewTokenExpiredError()
		}
		return "", models.NewTokenInvalidError()
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 32)
	if err != nil {
		return "", models.NewInvalidIDError()
	}

	user, err := s.users.GetByID(ctx, uint(userID))
	if err != nil {
		return "", err
	}

	return s.tokens.IssueAccessToken(strconv.FormatUint(uint64(user.ID), 10), user.Email)
}

// GetCurrentUser resolves an authenticated identity to its user record.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update: empty name/email are left untouched,
// a non-nil ProfileImage is always written (an empty value clears the field).
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) issuePair(user *models.User) (*AuthResult, error) {
	id := strconv.FormatUint(uint64(user.ID), 10)

	accessToken, err := s.tokens.IssueAccessToken(id, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(id, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
