package domain

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a clinic employee allowed to sign in. Credential storage
// lives with the record: the bcrypt hash never leaves the adapter layer in
// plain form, and PII columns are encrypted at rest.
type StaffMember struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
