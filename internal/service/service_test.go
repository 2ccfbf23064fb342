package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"moodmate/internal/models"
	"moodmate/internal/token"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a function-field stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn     func(ctx context.Context, user *models.User) error
	updateFn     func(ctx context.Context, user *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

// noopUserRepo returns a stub where every operation succeeds on empty data.
func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User")
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
	}
}

// moodRepoStub is a function-field stub for repository.MoodRepository.
type moodRepoStub struct {
	createFn func(ctx context.Context, entry *models.MoodEntry) error
	listFn   func(ctx context.Context, userID string) ([]models.MoodEntry, error)
}

func (s *moodRepoStub) Create(ctx context.Context, entry *models.MoodEntry) error {
	return s.createFn(ctx, entry)
}

func (s *moodRepoStub) ListByUserID(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	return s.listFn(ctx, userID)
}

func noopMoodRepo() *moodRepoStub {
	return &moodRepoStub{
		createFn: func(_ context.Context, _ *models.MoodEntry) error { return nil },
		listFn: func(_ context.Context, _ string) ([]models.MoodEntry, error) {
			return []models.MoodEntry{}, nil
		},
	}
}

func testTokenService() *token.Service {
	return token.NewService("test-access-secret", "test-refresh-secret", 15*time.Minute, 168*time.Hour)
}

func hashPassword(t *testing.T, plaintext string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	return appErr
}
