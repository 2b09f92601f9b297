package models

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to the admin surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	IsVerified     bool      `json:"isVerified"`

	// SHA-256 hash of the token mailed at signup; cleared on verification.
	VerificationToken       string     `json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
