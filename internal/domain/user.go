package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record. The plaintext email is never stored;
// EmailHash is a keyed PBKDF2 digest used only for equality lookup,
// and EmailHashVersion allows re-hashing under a new salt later.
type User struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	EmailHash        []byte `json:"-" gorm:"size:32;uniqueIndex;not null"`
	EmailHashVersion int    `json:"-" gorm:"not null;default:1"`

	PasswordHash string `json:"-" gorm:"size:512;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
