package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a Moodify account created on first Google login.
// Mood entries are embedded in the user document and only ever appended.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	GoogleID string `bson:"google_id" json:"googleId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`

	Moods []MoodEntry `bson:"moods" json:"moods"`
}

// MoodEntry is one journaled mood with the genre and tracks picked for it.
// Entries keep insertion order; history is displayed oldest-to-newest.
type MoodEntry struct {
	Mood   string    `bson:"mood" json:"mood"`
	Genre  string    `bson:"genre" json:"genre"`
	Tracks []string  `bson:"tracks" json:"tracks"`
	Date   time.Time `bson:"date" json:"date"`
}

// MoodStats aggregates a user's history by mood and genre label.
type MoodStats struct {
	TotalEntries int            `json:"totalEntries"`
	Moods        map[string]int `json:"moods"`
	Genres       map[string]int `json:"genres"`
}
