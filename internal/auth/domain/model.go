package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrForbidden       = errors.New("admin access required")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// UserProfile is the app-side profile. ID is the Firebase UID.
type UserProfile struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Image        *string    `json:"image,omitempty"`
	Admin        bool       `json:"admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

// FullName joins name and surname, skipping empty parts.
func (u *UserProfile) FullName() string {
	switch {
	case u.Name == "":
		return u.Surname
	case u.Surname == "":
		return u.Name
	}
	return u.Name + " " + u.Surname
}

// SyncProfileRequest carries the fields the client sends after signing in.
// Nil pointers leave stored values untouched.
type SyncProfileRequest struct {
	ID      string
	Email   string
	Name    *string
	Surname *string
	Image   *string
}

type UpdateProfileRequest struct {
	Name    *string
	Surname *string
	Image   *string
}
