package server

import (
	"moodmate/internal/models"
	"moodmate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateMoodEntry handles POST /api/user-mode/create. Entries are immutable
// once written; there is no update or delete counterpart.
func (s *Server) CreateMoodEntry(c *fiber.Ctx) error {
	var req struct {
		UserID       string   `json:"userId"`
		OverallMood  string   `json:"overallMood"`
		JournalEntry string   `json:"journalEntry"`
		Feelings     []string `json:"feelings"`
		SleepHours   string   `json:"sleepHours"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.moodService.Create(c.Context(), service.CreateMoodInput{
		UserID:       req.UserID,
		OverallMood:  req.OverallMood,
		JournalEntry: req.JournalEntry,
		Feelings:     req.Feelings,
		SleepHours:   req.SleepHours,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusCreated, "User mode created successfully", entry)
}

// GetMoodEntries handles GET /api/user-mode/get/:userId. Unknown identifiers
// yield an empty list, not a 404.
func (s *Server) GetMoodEntries(c *fiber.Ctx) error {
	userID := c.Params("userId")

	entries, err := s.moodService.List(c.Context(), userID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondData(c, fiber.StatusOK, "User mode fetched successfully", entries)
}
