package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once so unknown accounts still pay for a bcrypt compare.
const dummyPassword = "user-management-timing-equalizer"

var ErrPasswordMismatch = errors.New("password mismatch")

func VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// DummyHash returns a valid hash at the given cost for timing-equalized failures.
func DummyHash(cost int) (string, error) {
	return HashPassword(dummyPassword, cost)
}
