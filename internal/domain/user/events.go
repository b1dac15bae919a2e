package user

import "time"

const (
	AggregateType = "User"

	EventUserRegistered      = "UserRegistered"
	EventUserLoggedIn        = "UserLoggedIn"
	EventUserLoggedOut       = "UserLoggedOut"
	EventUserProfileUpdated  = "UserProfileUpdated"
	EventUserPasswordChanged = "UserPasswordChanged"
	EventSessionRecovered    = "SessionRecovered"
)

// UserRegistered is emitted when an account is created from this client
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserLoggedIn is emitted when a login succeeds
type UserLoggedIn struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	LoggedAt time.Time `json:"logged_at"`
}

// UserLoggedOut is emitted when credentials are purged
type UserLoggedOut struct {
	UserID   string    `json:"user_id"`
	Reason   string    `json:"reason"`
	LoggedAt time.Time `json:"logged_at"`
}

// UserProfileUpdated is emitted when the collaborator accepts a profile patch
type UserProfileUpdated struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPasswordChanged is emitted when a password change succeeds
type UserPasswordChanged struct {
	UserID    string    `json:"user_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// SessionRecovered is emitted when a corrupt or partial persisted session
// is purged at startup
type SessionRecovered struct {
	Reason      string    `json:"reason"`
	RecoveredAt time.Time `json:"recovered_at"`
}
