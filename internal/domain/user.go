package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Author is the public view of a user as seen by a particular viewer.
// IsSubscribed is false for anonymous viewers and for the viewer themself.
type Author struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	IsSubscribed bool
}

// UserInput is the registration payload.
type UserInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// Credentials is the token login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordChange is the set_password payload.
type PasswordChange struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// Viewer identifies who is making a request. The zero Viewer is anonymous.
type Viewer struct {
	ID    uuid.UUID
	Admin bool
}

// Anonymous reports whether the viewer has no identity.
func (v Viewer) Anonymous() bool { return v.ID == uuid.Nil }
