package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a row in the users table, exposed read-only via the API.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
