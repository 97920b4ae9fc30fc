package token

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, token *userDatamodel.PersonalAccessToken) error
	FindByID(ctx context.Context, id int64) (*userDatamodel.PersonalAccessToken, error)
	FindByHash(ctx context.Context, hash string) (*userDatamodel.PersonalAccessToken, error)
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	opts   Options
	issuer codec
	opaque codec
	jwt    codec
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, opts Options, logger *slog.Logger) (*Service, error) {
	if opts.Name == "" {
		opts.Name = "api-token"
	}
	if opts.Format == "" {
		opts.Format = FormatOpaque
	}

	s := &Service{
		repo:   repo,
		opts:   opts,
		opaque: opaqueCodec{},
		now:    time.Now,
		logger: logger,
	}
	if opts.JWTSecret != "" {
		s.jwt = jwtCodec{secret: []byte(opts.JWTSecret), now: s.clock}
	}

	switch opts.Format {
	case FormatOpaque:
		s.issuer = s.opaque
	case FormatJWT:
		if s.jwt == nil {
			return nil, fmt.Errorf("token: jwt format requires a secret")
		}
		s.issuer = s.jwt
	default:
		return nil, fmt.Errorf("token: unsupported format %q", opts.Format)
	}

	return s, nil
}

// WithClock replaces the time source, used by tests to exercise expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) clock() time.Time {
	return s.now()
}

// Issue stores a new token for userID and returns its plain text. Existing tokens are untouched.
func (s *Service) Issue(ctx context.Context, userID int64) (*IssuedToken, error) {
	secret, err := RandomString(secretLength)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if s.opts.TTL > 0 {
		at := s.now().Add(s.opts.TTL).UTC()
		expiresAt = &at
	}

	row := &userDatamodel.PersonalAccessToken{
		UserID:    userID,
		Name:      s.opts.Name,
		TokenHash: HashSecret(secret),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	plain, err := s.issuer.encode(row.ID, userID, secret, expiresAt)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		ID:        row.ID,
		UserID:    userID,
		PlainText: plain,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve returns the owner of a presented token.
func (s *Service) Resolve(ctx context.Context, plain string) (int64, error) {
	if plain == "" {
		return 0, ErrInvalidToken
	}

	c := s.opaque
	if looksLikeJWT(plain) {
		if s.jwt == nil {
			return 0, ErrInvalidToken
		}
		c = s.jwt
	}

	l, err := c.decode(plain)
	if err != nil {
		return 0, err
	}

	hash := HashSecret(l.secret)

	var row *userDatamodel.PersonalAccessToken
	if l.id > 0 {
		row, err = s.repo.FindByID(ctx, l.id)
	} else {
		row, err = s.repo.FindByHash(ctx, hash)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, fmt.Errorf("lookup token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(row.TokenHash), []byte(hash)) != 1 {
		return 0, ErrInvalidToken
	}
	if l.userID != 0 && l.userID != row.UserID {
		return 0, ErrInvalidToken
	}

	now := s.now()
	if row.ExpiresAt != nil && !now.Before(*row.ExpiresAt) {
		return 0, ErrTokenExpired
	}

	if err := s.repo.TouchLastUsed(ctx, row.ID, now.UTC()); err != nil {
		s.logger.WarnContext(ctx, "failed to record token usage", "token_id", row.ID, "error", err)
	}

	return row.UserID, nil
}

// RevokeAll deletes every token of userID. Revoking a user without tokens is not an error.
func (s *Service) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke tokens for user %d: %w", userID, err)
	}
	return n, nil
}
