package auth

import (
	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	minPasswordLength = 8
	maxPasswordLength = 128
)

var (
	ErrPasswordTooShort = eris.New("password must be at least 8 characters")
	ErrPasswordTooLong  = eris.New("password must be at most 128 characters")
)

// ValidatePassword checks the length constraints applied at registration.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", eris.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
