package entity

import (
	"strings"
	"time"
)

// User represents a learner in the domain.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate validates the user entity.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidUserName
	}
	return nil
}
