package repository

import (
	"context"

	"moodmate/internal/models"

	"gorm.io/gorm"
)

// MoodRepository defines persistence operations for mood-journal entries.
// Entries are append-only: there is no update or delete.
type MoodRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	ListByUserID(ctx context.Context, userID string) ([]models.MoodEntry, error)
}

type moodRepository struct {
	db *gorm.DB
}

// NewMoodRepository returns a new MoodRepository implementation.
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db}
}

func (r *moodRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByUserID returns every entry recorded for the identifier, in natural
// storage order. An unknown identifier yields an empty slice, not an error.
func (r *moodRepository) ListByUserID(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	entries := []models.MoodEntry{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
