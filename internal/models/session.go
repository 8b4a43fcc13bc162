package models

import "time"

// SessionStatus enumerates the scheduling states of an appointment.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionConfirmed, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Session is a scheduled appointment between a practitioner and a client.
// Distinct from the authentication session, which lives in internal/session.
type Session struct {
	ID             int64         `db:"id" json:"id"`
	ClientID       int64         `db:"client_id" json:"client_id"`
	PractitionerID int64         `db:"practitioner_id" json:"practitioner_id"`
	Date           time.Time     `db:"date" json:"date"`
	Status         SessionStatus `db:"status" json:"status"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}
