package authcrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize = 16
	keySize  = 32

	DefaultIterations = 200_000

	// DefaultEmailSalt is public and deliberately application-wide: the email
	// digest only needs to be deterministic for equality lookup. This is
	// pseudonymization, not secrecy against an attacker with the salt and
	// unbounded compute. The "users:vN" form carries the hash version.
	DefaultEmailSalt = "users:v1"
)

// Crypto derives password hashes and email index digests. Both use
// PBKDF2-HMAC-SHA256 but with separate salts, so probing the email index
// reveals nothing about password hash parameters.
type Crypto struct {
	iterations int
	emailSalt  []byte
}

func New(iterations int, emailSalt string) *Crypto {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if emailSalt == "" {
		emailSalt = DefaultEmailSalt
	}
	return &Crypto{
		iterations: iterations,
		emailSalt:  []byte(emailSalt),
	}
}

// HashPassword derives a salted hash encoded as
// "<iterations>.<salt base64>.<hash base64>". The iteration count is
// embedded so it can be raised later without invalidating stored hashes.
func (c *Crypto) HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := pbkdf2.Key([]byte(password), salt, c.iterations, keySize, sha256.New)

	return fmt.Sprintf("%d.%s.%s",
		c.iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword recomputes the stored hash and compares in constant time.
// Any malformed stored value (wrong field count, non-numeric iteration
// count, bad base64, wrong hash length) yields false, never an error.
func (c *Crypto) VerifyPassword(password, storedHash string) bool {
	parts := strings.Split(storedHash, ".")
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(expected) != keySize {
		// A truncated or empty stored hash must never verify; sizing the
		// derived key off the stored value would let a zero-length hash
		// match every password.
		return false
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// ComputeEmailHash returns the 32-byte index digest for an email address.
// The input is normalized (trimmed, lowercased) first, so case and
// whitespace variants of one address map to the same digest. Uniqueness
// is enforced by the unique index on users.email_hash.
func (c *Crypto) ComputeEmailHash(email string) []byte {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return pbkdf2.Key([]byte(normalized), c.emailSalt, c.iterations, keySize, sha256.New)
}
