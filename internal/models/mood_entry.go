package models

import (
	"time"
)

// MoodEntry is a single mood-journal record. Entries belong to a user by
// identifier only; there is no enforced foreign key, and an entry is never
// updated or deleted once written.
type MoodEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;index" json:"userId"`
	OverallMood  string    `gorm:"not null" json:"overallMood"`
	JournalEntry string    `gorm:"type:text;not null" json:"journalEntry"`
	Feelings     []string  `gorm:"serializer:json;not null" json:"feelings"`
	SleepHours   string    `gorm:"not null" json:"sleepHours"`
	Date         time.Time `gorm:"not null" json:"date"`
}
