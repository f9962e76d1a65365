package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"datavisapi/internal/domain"
	"datavisapi/internal/pkg/clock"
)

var (
	// ErrRefreshTokenNotFound: no row carries this token value.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenUnusable: the token exists but is revoked or past its
	// expiry. Both conditions are terminal.
	ErrRefreshTokenUnusable = errors.New("refresh token expired or revoked")
	// ErrTokenOwnerNotFound: the owning user row is gone.
	ErrTokenOwnerNotFound = errors.New("refresh token owner not found")
)

const rawTokenSize = 64

// RefreshTokenRepository persists and rotates opaque refresh tokens.
// All state transitions go through the database; rotation is the only
// mutation and is transactional.
type RefreshTokenRepository struct {
	db    *gorm.DB
	clock clock.Clock
	ttl   time.Duration
}

func NewRefreshTokenRepository(db *gorm.DB, clk clock.Clock, ttl time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db, clock: clk, ttl: ttl}
}

// Issue mints and persists a fresh token for the user.
func (r *RefreshTokenRepository) Issue(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	token, err := r.newToken(userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// Rotate redeems a token: it revokes the row and inserts a successor for
// the same owner in one transaction, so either both writes commit or
// neither does. The revoke is conditional on the row still being
// unrevoked; when two callers race on the same token, the condition
// matches for exactly one of them and the loser gets
// ErrRefreshTokenUnusable rather than a second successor.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, token string) (*domain.User, *domain.RefreshToken, error) {
	now := r.clock.Now()

	var user domain.User
	var successor *domain.RefreshToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.RefreshToken
		if err := tx.Where("token = ?", token).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshTokenNotFound
			}
			return err
		}

		if current.Revoked || current.IsExpired(now) {
			return ErrRefreshTokenUnusable
		}

		res := tx.Model(&domain.RefreshToken{}).
			Where("id = ? AND revoked = ?", current.ID, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race: another rotation revoked it first.
			return ErrRefreshTokenUnusable
		}

		if err := tx.Where("id = ?", current.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenOwnerNotFound
			}
			return err
		}

		next, err := r.newToken(current.UserID)
		if err != nil {
			return err
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}

		successor = next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, successor, nil
}

// PurgeStale deletes rows that can never be redeemed again: expired ones,
// and revoked ones older than the retention window.
func (r *RefreshTokenRepository) PurgeStale(ctx context.Context, revokedRetention time.Duration) (int64, error) {
	now := r.clock.Now()
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Or("revoked = ? AND created_at < ?", true, now.Add(-revokedRetention)).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *RefreshTokenRepository) newToken(userID uuid.UUID) (*domain.RefreshToken, error) {
	buf := make([]byte, rawTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	return &domain.RefreshToken{
		Token:     base64.StdEncoding.EncodeToString(buf),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
		Revoked:   false,
	}, nil
}
