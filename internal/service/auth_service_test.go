package service

import (
	"context"
	"testing"
	"time"

	"moodmate/internal/models"
	"moodmate/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	t.Run("success issues a verifiable token pair", func(t *testing.T) {
		t.Parallel()

		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, user *models.User) error {
			user.ID = 42
			return nil
		}
		tokens := testTokenService()
		svc := NewAuthService(repo, tokens)

		result, err := svc.Signup(context.Background(), SignupInput{
			Name:     "Taylor",
			Email:    "taylor@example.com",
			Password: "long-enough-password",
		})
		require.NoError(t, err)
		require.NotNil(t, result.User)
		assert.Equal(t, uint(42), result.User.ID)

		accessClaims, err := tokens.VerifyAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "42", accessClaims.UserID)
		assert.Equal(t, "taylor@example.com", accessClaims.Email)

		refreshClaims, err := tokens.VerifyRefreshToken(result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "42", refreshClaims.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		}
		svc := NewAuthService(repo, testTokenService())

		_, err := svc.Signup(context.Background(), SignupInput{
			Name:     "Taylor",
			Email:    "taken@example.com",
			Password: "long-enough-password",
		})
		appErr := assertAppErrorCode(t, err, models.CodeDuplicateKey)
		assert.Equal(t, "email already exists. Please use a different email.", appErr.Message)
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(noopUserRepo(), testTokenService())
		cases := []struct {
			name  string
			input SignupInput
		}{
			{"missing name", SignupInput{Email: "a@example.com", Password: "long-enough-password"}},
			{"bad email", SignupInput{Name: "Taylor", Email: "not-an-email", Password: "long-enough-password"}},
			{"short password", SignupInput{Name: "Taylor", Email: "a@example.com", Password: "short"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Signup(context.Background(), tc.input)
				assertAppErrorCode(t, err, models.CodeValidation)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		hashed := hashPassword(t, "correct-password")
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 7, Email: email, Password: hashed}, nil
		}
		tokens := testTokenService()
		svc := NewAuthService(repo, tokens)

		result, err := svc.Login(context.Background(), "taylor@example.com", "correct-password")
		require.NoError(t, err)

		claims, err := tokens.VerifyAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "7", claims.UserID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		hashed := hashPassword(t, "correct-password")
		known := noopUserRepo()
		known.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 7, Email: email, Password: hashed}, nil
		}
		svc := NewAuthService(known, testTokenService())

		_, wrongPassErr := svc.Login(context.Background(), "taylor@example.com", "wrong-password")
		_, unknownErr := NewAuthService(noopUserRepo(), testTokenService()).
			Login(context.Background(), "nobody@example.com", "correct-password")

		wrongPass := assertAppErrorCode(t, wrongPassErr, models.CodeUnauthorized)
		unknown := assertAppErrorCode(t, unknownErr, models.CodeUnauthorized)
		assert.Equal(t, "Invalid email or password", wrongPass.Message)
		assert.Equal(t, wrongPass.Message, unknown.Message)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(noopUserRepo(), testTokenService())

		_, err := svc.Login(context.Background(), "", "password")
		assertAppErrorCode(t, err, models.CodeValidation)

		_, err = svc.Login(context.Background(), "taylor@example.com", "")
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	userByID := func(id uint) *userRepoStub {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, got uint) (*models.User, error) {
			if got != id {
				return nil, models.NewNotFoundError("User")
			}
			return &models.User{ID: id, Email: "taylor@example.com"}, nil
		}
		return repo
	}

	t.Run("success issues a fresh access token", func(t *testing.T) {
		t.Parallel()

		tokens := testTokenService()
		svc := NewAuthService(userByID(9), tokens)

		refreshToken, err := tokens.IssueRefreshToken("9", "taylor@example.com")
		require.NoError(t, err)

		accessToken, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := tokens.VerifyAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "9", claims.UserID)
		assert.Equal(t, "taylor@example.com", claims.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(noopUserRepo(), testTokenService())
		_, err := svc.Refresh(context.Background(), "")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()

		tokens := testTokenService()
		svc := NewAuthService(userByID(9), tokens)

		accessToken, err := tokens.IssueAccessToken("9", "taylor@example.com")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), accessToken)
		appErr := assertAppErrorCode(t, err, models.CodeTokenInvalid)
		assert.Equal(t, "Invalid token", appErr.Message)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		// Same secrets, negative TTL: expired but otherwise valid.
		expiredIssuer := token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, -time.Minute)
		refreshToken, err := expiredIssuer.IssueRefreshToken("9", "taylor@example.com")
		require.NoError(t, err)

		svc := NewAuthService(userByID(9), testTokenService())
		_, err = svc.Refresh(context.Background(), refreshToken)
		appErr := assertAppErrorCode(t, err, models.CodeTokenExpired)
		assert.Equal(t, "Token expired", appErr.Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(noopUserRepo(), testTokenService())
		_, err := svc.Refresh(context.Background(), "not.a.jwt")
		assertAppErrorCode(t, err, models.CodeTokenInvalid)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		t.Parallel()

		tokens := testTokenService()
		svc := NewAuthService(noopUserRepo(), tokens)

		refreshToken, err := tokens.IssueRefreshToken("odd-identifier", "taylor@example.com")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refreshToken)
		appErr := assertAppErrorCode(t, err, models.CodeInvalidID)
		assert.Equal(t, "Invalid ID format", appErr.Message)
	})

	t.Run("user deleted since issuance", func(t *testing.T) {
		t.Parallel()

		tokens := testTokenService()
		svc := NewAuthService(noopUserRepo(), tokens)

		refreshToken, err := tokens.IssueRefreshToken("9", "taylor@example.com")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refreshToken)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	existing := func() (*userRepoStub, **models.User) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:           id,
				Name:         "Before",
				Email:        "before@example.com",
				ProfileImage: "https://cdn.example.com/old.png",
			}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		}
		return repo, &saved
	}

	t.Run("empty fields are left untouched", func(t *testing.T) {
		t.Parallel()

		repo, saved := existing()
		svc := NewAuthService(repo, testTokenService())

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 5, Name: "After"})
		require.NoError(t, err)
		assert.Equal(t, "After", user.Name)
		assert.Equal(t, "before@example.com", user.Email)
		assert.Equal(t, "https://cdn.example.com/old.png", user.ProfileImage)
		require.NotNil(t, *saved)
	})

	t.Run("nil profile image is omitted, empty pointer clears", func(t *testing.T) {
		t.Parallel()

		repo, _ := existing()
		svc := NewAuthService(repo, testTokenService())

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 5})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/old.png", user.ProfileImage)

		empty := ""
		user, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 5, ProfileImage: &empty})
		require.NoError(t, err)
		assert.Equal(t, "", user.ProfileImage)
	})

	t.Run("invalid email rejected before write", func(t *testing.T) {
		t.Parallel()

		repo, saved := existing()
		svc := NewAuthService(repo, testTokenService())

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 5, Email: "nope"})
		assertAppErrorCode(t, err, models.CodeValidation)
		assert.Nil(t, *saved)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(noopUserRepo(), testTokenService())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 404, Name: "After"})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestGetCurrentUser(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Email: "taylor@example.com"}, nil
	}
	svc := NewAuthService(repo, testTokenService())

	user, err := svc.GetCurrentUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
}
