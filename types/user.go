package types

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns tasks. The password is stored only as a
// bcrypt hash and never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
