package models

import (
	"strings"
	"time"
)

// User represents a registered account used for authentication and as the
// identity anchor for companion relationships. Sensitive fields must never
// be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique, case-insensitive login identifier.
	Email string `json:"email"`

	// FirstName and LastName are display attributes and may be shown in UI.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// Never populated in responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns "FirstName LastName" with empty parts trimmed,
// falling back to the email address when both name fields are blank.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
