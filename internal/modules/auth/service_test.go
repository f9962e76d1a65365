package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"datavisapi/internal/domain"
	"datavisapi/internal/pkg/authcrypt"
	"datavisapi/internal/pkg/clock"
	"datavisapi/internal/repository"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmailHash(ctx context.Context, emailHash []byte) (*domain.User, error) {
	args := m.Called(ctx, emailHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmailHash(ctx context.Context, emailHash []byte) (bool, error) {
	args := m.Called(ctx, emailHash)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error {
	args := m.Called(ctx, id, passwordHash, now)
	return args.Error(0)
}

// Mock Refresh Token Repository
type mockRefreshTokenRepo struct {
	mock.Mock
}

func (m *mockRefreshTokenRepo) Issue(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) Rotate(ctx context.Context, token string) (*domain.User, *domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.RefreshToken), args.Error(2)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID uuid.UUID, role string) (string, time.Time, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// Low iteration count keeps tests fast.
var testCrypto = authcrypt.New(1000, "users:v1")

func newTestService(users *mockUserRepo, tokens *mockRefreshTokenRepo, jwt *mockJWTService) *Service {
	return NewService(users, tokens, testCrypto, jwt, clock.System(), 1)
}

func TestService_Register_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	emailHash := testCrypto.ComputeEmailHash("test@example.com")
	userRepo.On("ExistsByEmailHash", mock.Anything, emailHash).Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	user, err := service.Register(context.Background(), "test@example.com", "securepass123")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, emailHash, user.EmailHash)
	assert.Equal(t, 1, user.EmailHashVersion)
	assert.True(t, testCrypto.VerifyPassword("securepass123", user.PasswordHash))

	userRepo.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("ExistsByEmailHash", mock.Anything, mock.Anything).Return(true, nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	_, err := service.Register(context.Background(), "exists@example.com", "securepass123")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Register_CaseVariantCollides(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	// The digest for the case variant equals the one stored at first
	// registration, so the existence check must see it.
	emailHash := testCrypto.ComputeEmailHash("user@example.com")
	userRepo.On("ExistsByEmailHash", mock.Anything, emailHash).Return(true, nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	_, err := service.Register(context.Background(), "User@Example.com", "securepass123")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	userRepo.AssertExpectations(t)
}

func TestService_Register_Validation(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "securepass123"},
		{"not an address", "not-an-email", "securepass123"},
		{"angle brackets", "Someone <a@x.com>", "securepass123"},
		{"short password", "a@x.com", "seven77"},
		{"empty password", "a@x.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// No repository call for rejected input.
	userRepo.AssertNotCalled(t, "ExistsByEmailHash", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_UniqueIndexRace(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("ExistsByEmailHash", mock.Anything, mock.Anything).Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("UNIQUE constraint failed: users.email_hash"))

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	_, err := service.Register(context.Background(), "race@example.com", "securepass123")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	passwordHash, err := testCrypto.HashPassword("password123")
	require.NoError(t, err)

	userID := uuid.New()
	existingUser := &domain.User{
		ID:           userID,
		EmailHash:    testCrypto.ComputeEmailHash("user@example.com"),
		PasswordHash: passwordHash,
	}

	expiresAt := time.Now().UTC().Add(15 * time.Minute)
	userRepo.On("GetByEmailHash", mock.Anything, existingUser.EmailHash).Return(existingUser, nil)
	jwtSvc.On("GenerateToken", userID, "admin").Return("login-token", expiresAt, nil)
	refreshRepo.On("Issue", mock.Anything, userID).
		Return(&domain.RefreshToken{Token: "opaque-refresh", UserID: userID}, nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	tokens, err := service.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	assert.Equal(t, "login-token", tokens.AccessToken)
	assert.Equal(t, "opaque-refresh", tokens.RefreshToken)
	assert.Equal(t, expiresAt, tokens.ExpiresAt)
}

func TestService_Login_UniformFailure(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	passwordHash, err := testCrypto.HashPassword("password123")
	require.NoError(t, err)

	knownHash := testCrypto.ComputeEmailHash("a@x.com")
	missingHash := testCrypto.ComputeEmailHash("missing@x.com")

	userRepo.On("GetByEmailHash", mock.Anything, knownHash).
		Return(&domain.User{ID: uuid.New(), PasswordHash: passwordHash}, nil)
	userRepo.On("GetByEmailHash", mock.Anything, missingHash).
		Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	_, wrongPassword := service.Login(context.Background(), "a@x.com", "wrong")
	_, noSuchUser := service.Login(context.Background(), "missing@x.com", "anything")

	// The two failures must be indistinguishable.
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, noSuchUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, noSuchUser)
}

func TestService_Refresh_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userID := uuid.New()
	expiresAt := time.Now().UTC().Add(15 * time.Minute)

	refreshRepo.On("Rotate", mock.Anything, "old-token").
		Return(&domain.User{ID: userID}, &domain.RefreshToken{Token: "new-token", UserID: userID}, nil)
	jwtSvc.On("GenerateToken", userID, "admin").Return("fresh-access", expiresAt, nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	tokens, err := service.Refresh(context.Background(), "old-token")
	require.NoError(t, err)

	assert.Equal(t, "fresh-access", tokens.AccessToken)
	assert.Equal(t, "new-token", tokens.RefreshToken)
}

func TestService_Refresh_RejectionsAreUniform(t *testing.T) {
	rejections := []error{
		repository.ErrRefreshTokenNotFound,
		repository.ErrRefreshTokenUnusable,
		repository.ErrTokenOwnerNotFound,
	}

	for _, rejection := range rejections {
		t.Run(rejection.Error(), func(t *testing.T) {
			userRepo := new(mockUserRepo)
			refreshRepo := new(mockRefreshTokenRepo)
			jwtSvc := new(mockJWTService)

			refreshRepo.On("Rotate", mock.Anything, "token").Return(nil, nil, rejection)

			service := newTestService(userRepo, refreshRepo, jwtSvc)

			_, err := service.Refresh(context.Background(), "token")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestService_Refresh_StorageErrorPassesThrough(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	storageErr := errors.New("connection reset")
	refreshRepo.On("Rotate", mock.Anything, "token").Return(nil, nil, storageErr)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	_, err := service.Refresh(context.Background(), "token")
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResetPassword_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userID := uuid.New()
	emailHash := testCrypto.ComputeEmailHash("user@example.com")

	userRepo.On("GetByEmailHash", mock.Anything, emailHash).
		Return(&domain.User{ID: userID, EmailHash: emailHash}, nil)
	userRepo.On("UpdatePasswordHash", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		return testCrypto.VerifyPassword("brand-new-pass", hash)
	}), mock.Anything).Return(nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	err := service.ResetPassword(context.Background(), userID, "user@example.com", "brand-new-pass")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestService_ResetPassword_WrongCaller(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("GetByEmailHash", mock.Anything, mock.Anything).
		Return(&domain.User{ID: uuid.New()}, nil)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	// Authenticated, but targeting someone else's account.
	err := service.ResetPassword(context.Background(), uuid.New(), "victim@example.com", "brand-new-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
	userRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ResetPassword_MissingAccount(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	jwtSvc := new(mockJWTService)

	userRepo.On("GetByEmailHash", mock.Anything, mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(userRepo, refreshRepo, jwtSvc)

	err := service.ResetPassword(context.Background(), uuid.New(), "missing@example.com", "brand-new-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
