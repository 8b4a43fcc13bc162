package models

import "time"

// UserRole distinguishes practitioners from the clients they manage.
type UserRole string

const (
	RolePractitioner UserRole = "practitioner"
	RoleClient       UserRole = "client"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RolePractitioner || r == RoleClient
}

// User represents an application user stored in the users table.
// PasswordHash never serialises into responses.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	FirstName    *string   `db:"first_name" json:"first_name,omitempty"`
	LastName     *string   `db:"last_name" json:"last_name,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
