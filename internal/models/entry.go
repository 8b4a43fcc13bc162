package models

import "time"

// Mood enumerates the self-reported mood values for a check-in.
type Mood string

const (
	MoodVeryLow  Mood = "very_low"
	MoodLow      Mood = "low"
	MoodNeutral  Mood = "neutral"
	MoodGood     Mood = "good"
	MoodVeryGood Mood = "very_good"
)

// Valid reports whether the mood is a known value.
func (m Mood) Valid() bool {
	switch m {
	case MoodVeryLow, MoodLow, MoodNeutral, MoodGood, MoodVeryGood:
		return true
	}
	return false
}

// DataEntry is one self-reported mood/anxiety/sleep check-in. Entries are
// immutable once created; there is no update or delete path.
type DataEntry struct {
	ID           int64      `db:"id" json:"id"`
	ClientID     int64      `db:"client_id" json:"client_id"`
	Mood         Mood       `db:"mood" json:"mood"`
	AnxietyLevel int        `db:"anxiety_level" json:"anxiety_level"`
	SleepQuality int        `db:"sleep_quality" json:"sleep_quality"`
	Challenges   StringList `db:"challenges" json:"challenges"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
