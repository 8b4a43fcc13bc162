package models

// Actor is the narrowed identity resolved once at the authorization boundary.
// Handlers and services branch on the concrete type instead of re-checking
// role strings.
type Actor interface {
	ActorUserID() int64
}

// PractitionerActor identifies an authenticated practitioner.
type PractitionerActor struct {
	UserID int64
}

// ActorUserID returns the backing user id.
func (a PractitionerActor) ActorUserID() int64 { return a.UserID }

// ClientActor identifies an authenticated client-role user together with the
// client row they own and the practitioner that manages it.
type ClientActor struct {
	UserID         int64
	ClientID       int64
	PractitionerID int64
}

// ActorUserID returns the backing user id.
func (a ClientActor) ActorUserID() int64 { return a.UserID }
