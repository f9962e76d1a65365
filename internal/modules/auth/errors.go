package auth

import "errors"

var (
	ErrValidation = errors.New("validation error")
	// ErrInvalidCredentials is deliberately uniform: callers cannot tell a
	// missing account from a wrong password, or an unknown refresh token
	// from a rotated one.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
)
