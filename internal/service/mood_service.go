package service

import (
	"context"
	"time"

	"moodmate/internal/models"
	"moodmate/internal/repository"
)

// MoodService orchestrates mood-journal entry creation and listing.
type MoodService struct {
	moods repository.MoodRepository
}

// NewMoodService returns a MoodService backed by the given store.
func NewMoodService(moods repository.MoodRepository) *MoodService {
	return &MoodService{moods: moods}
}

// CreateMoodInput carries a new journal entry. The user identifier is accepted
// as-is; entries are decoupled from the user store by design.
type CreateMoodInput struct {
	UserID       string
	OverallMood  string
	JournalEntry string
	Feelings     []string
	SleepHours   string
}

// Create validates and persists a journal entry with a server-assigned timestamp.
func (s *MoodService) Create(ctx context.Context, in CreateMoodInput) (*models.MoodEntry, error) {
	switch {
	case in.UserID == "":
		return nil, models.NewValidationError("userId is required")
	case in.OverallMood == "":
		return nil, models.NewValidationError("overallMood is required")
	case in.JournalEntry == "":
		return nil, models.NewValidationError("journalEntry is required")
	case in.Feelings == nil:
		return nil, models.NewValidationError("feelings is required")
	case in.SleepHours == "":
		return nil, models.NewValidationError("sleepHours is required")
	}

	entry := &models.MoodEntry{
		UserID:       in.UserID,
		OverallMood:  in.OverallMood,
		JournalEntry: in.JournalEntry,
		Feelings:     in.Feelings,
		SleepHours:   in.SleepHours,
		Date:         time.Now().UTC(),
	}
	if err := s.moods.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// List returns every entry for the identifier, empty when none exist.
func (s *MoodService) List(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	return s.moods.ListByUserID(ctx, userID)
}
