package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"datavisapi/internal/domain"
	"datavisapi/internal/pkg/authcrypt"
	"datavisapi/internal/pkg/clock"
	"datavisapi/internal/repository"
)

const minPasswordLength = 8

// Every account manages the full dataset; there is no finer-grained role model.
const accessRole = "admin"

type tokenIssuer interface {
	GenerateToken(userID uuid.UUID, role string) (string, time.Time, error)
}

// Service contains all business logic for authentication
type Service struct {
	users            UserRepositoryInterface
	refreshTokens    RefreshTokenRepositoryInterface
	crypto           *authcrypt.Crypto
	jwt              tokenIssuer
	clock            clock.Clock
	emailHashVersion int
}

func NewService(
	users UserRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	crypto *authcrypt.Crypto,
	jwt tokenIssuer,
	clk clock.Clock,
	emailHashVersion int,
) *Service {
	return &Service{
		users:            users,
		refreshTokens:    refreshTokens,
		crypto:           crypto,
		jwt:              jwt,
		clock:            clk,
		emailHashVersion: emailHashVersion,
	}
}

// Register creates an account. Only the email digest and the password hash
// are persisted.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, ErrValidation
	}

	emailHash := s.crypto.ComputeEmailHash(email)

	exists, err := s.users.ExistsByEmailHash(ctx, emailHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := s.crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:               uuid.New(),
		EmailHash:        emailHash,
		EmailHashVersion: s.emailHashVersion,
		PasswordHash:     passwordHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two registrations can race past the existence check; the unique
		// index on email_hash keeps exactly one row.
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmailHash(ctx, s.crypto.ComputeEmailHash(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.crypto.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh redeems a refresh token. Rotation is single-use: a token that
// was already redeemed, revoked or expired fails with ErrInvalidCredentials,
// which is the intended outcome for blind retries, not a bug.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	user, successor, err := s.refreshTokens.Rotate(ctx, refreshToken)
	if err != nil {
		if isTokenRejection(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	accessToken, expiresAt, err := s.jwt.GenerateToken(user.ID, accessRole)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: successor.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

// ResetPassword overwrites the stored password hash. The caller must be
// authenticated and must be resetting their own account; a mismatch is
// indistinguishable from a missing account.
func (s *Service) ResetPassword(ctx context.Context, callerID uuid.UUID, email, newPassword string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return ErrValidation
	}

	user, err := s.users.GetByEmailHash(ctx, s.crypto.ComputeEmailHash(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.ID != callerID {
		return ErrUserNotFound
	}

	passwordHash, err := s.crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(ctx, user.ID, passwordHash, s.clock.Now())
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwt.GenerateToken(userID, accessRole)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshTokens.Issue(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ErrValidation
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return ErrValidation
	}
	return nil
}

func isTokenRejection(err error) bool {
	return errors.Is(err, repository.ErrRefreshTokenNotFound) ||
		errors.Is(err, repository.ErrRefreshTokenUnusable) ||
		errors.Is(err, repository.ErrTokenOwnerNotFound)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite reports constraint violations by message only.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
