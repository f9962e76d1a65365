package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"datavisapi/internal/domain"
)

// UserRepositoryInterface covers only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmailHash(ctx context.Context, emailHash []byte) (*domain.User, error)
	ExistsByEmailHash(ctx context.Context, emailHash []byte) (bool, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error
}

// RefreshTokenRepositoryInterface covers issuance and single-use rotation
type RefreshTokenRepositoryInterface interface {
	Issue(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error)
	Rotate(ctx context.Context, token string) (*domain.User, *domain.RefreshToken, error)
}
