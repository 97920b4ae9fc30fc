package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

const (
	FormatOpaque = "opaque"
	FormatJWT    = "jwt"

	// secretLength is the number of random alphanumerics in an opaque token.
	secretLength = 40
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNotFound     = errors.New("token not found")
)

type Options struct {
	Name      string
	Format    string
	TTL       time.Duration
	JWTSecret string
}

// IssuedToken carries the plain token. It is only available at issue time.
type IssuedToken struct {
	ID        int64      `json:"-"`
	UserID    int64      `json:"-"`
	PlainText string     `json:"access_token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
