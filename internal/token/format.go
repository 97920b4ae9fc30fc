package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn uniformly from [A-Za-z0-9].
func RandomString(n int) (string, error) {
	const maxByte = 256 - (256 % len(alphanumerics))

	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, alphanumerics[int(b)%len(alphanumerics)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// lookup describes how a presented token maps to a stored row.
type lookup struct {
	// id is set when the token embeds its row id.
	id     int64
	secret string
	// userID is set when the token itself names its owner.
	userID int64
}

type codec interface {
	// encode builds the plain token for a stored row.
	encode(rowID, userID int64, secret string, expiresAt *time.Time) (string, error)
	decode(plain string) (lookup, error)
}

// opaqueCodec produces "<id>|<secret>" tokens. A bare secret is accepted too.
type opaqueCodec struct{}

func (opaqueCodec) encode(rowID, _ int64, secret string, _ *time.Time) (string, error) {
	return strconv.FormatInt(rowID, 10) + "|" + secret, nil
}

func (opaqueCodec) decode(plain string) (lookup, error) {
	idPart, secret, found := strings.Cut(plain, "|")
	if !found {
		if plain == "" {
			return lookup{}, ErrInvalidToken
		}
		return lookup{secret: plain}, nil
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 || secret == "" {
		return lookup{}, ErrInvalidToken
	}
	return lookup{id: id, secret: secret}, nil
}

// jwtCodec produces HS256 tokens whose jti is the stored secret.
type jwtCodec struct {
	secret []byte
	now    func() time.Time
}

func (c jwtCodec) encode(_, userID int64, secret string, expiresAt *time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		ID:       secret,
		IssuedAt: jwt.NewNumericDate(c.now()),
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c jwtCodec) decode(plain string) (lookup, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(plain, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return lookup{}, ErrTokenExpired
		}
		return lookup{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.ID == "" {
		return lookup{}, ErrInvalidToken
	}
	return lookup{secret: claims.ID, userID: userID}, nil
}

func looksLikeJWT(plain string) bool {
	return strings.Count(plain, ".") == 2 && !strings.Contains(plain, "|")
}
