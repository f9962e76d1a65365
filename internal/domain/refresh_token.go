package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a long-lived opaque session token.
//
// Security notes:
// - Token is random enough (64 bytes) that guessing is infeasible.
// - A token is redeemable exactly once: rotation revokes it and inserts
//   a successor in the same transaction.
// - Revoked is one-way; expiry is derived from ExpiresAt at time of use,
//   never extended and never swept by the API process.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	Token string `json:"-" gorm:"size:256;uniqueIndex;not null"`

	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	User   User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	Revoked   bool      `json:"revoked" gorm:"not null;default:false"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
