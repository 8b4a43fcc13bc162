package models

import "time"

// Client represents a practitioner's managed subject. Every client row links
// 1:1 to a client-role user and many-to-1 to the owning practitioner.
type Client struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	PractitionerID int64      `db:"practitioner_id" json:"practitioner_id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Diagnosis      *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	GuardianName   *string    `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone  *string    `db:"guardian_phone" json:"guardian_phone,omitempty"`
	GuardianEmail  *string    `db:"guardian_email" json:"guardian_email,omitempty"`
	TreatmentPlan  StringList `db:"treatment_plan" json:"treatment_plan"`
	TreatmentGoals StringList `db:"treatment_goals" json:"treatment_goals"`
	AvatarURL      *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	Archived       bool       `db:"archived" json:"archived"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ClientWithUser pairs a client row with its linked user account for
// practitioner-facing listings.
type ClientWithUser struct {
	Client
	User *User `json:"user,omitempty"`
}
