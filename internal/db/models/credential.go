package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Credential stores the password of users signing in with email and password.
// Users signing in through OIDC have no credential row.
type Credential struct {
	// UID references UserProfile.UID.
	UID string `gorm:"primaryKey;size:128"`
	// Email is the unique login name.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id hash.
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Credential model.
func (Credential) TableName() string {
	return "credentials"
}

// HashPassword hashes a plaintext password using Argon2id with default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash in constant time.
func (c *Credential) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, c.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")
		return false
	}

	return match
}
