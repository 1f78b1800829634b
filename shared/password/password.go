package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	Cost = bcrypt.DefaultCost

	// MinLength and MaxLength bound account passwords. bcrypt ignores bytes past 72.
	MinLength = 8
	MaxLength = 72
)

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrTooShort        = fmt.Errorf("password must be at least %d characters", MinLength)
	ErrTooLong         = fmt.Errorf("password must be at most %d bytes", MaxLength)
	ErrInvalidPassword = errors.New("invalid password")
)

func check(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len([]rune(password)) < MinLength:
		return ErrTooShort
	case len(password) > MaxLength:
		return ErrTooLong
	}

	return nil
}

// Hash returns the bcrypt hash stored in profiles.password.
func Hash(password string) (string, error) {
	if err := check(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify reports ErrInvalidPassword for any mismatch so sign-in can answer with one generic message.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
			return ErrInvalidPassword
		}

		return fmt.Errorf("failed to verify password: %w", err)
	}

	return nil
}
