package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/token"
)

var ErrPrincipalNotFound = errors.New("principal not found")

type RepositoryAPI interface {
	// GetActivePrincipal loads an active user with roles and permissions,
	// or ErrPrincipalNotFound.
	GetActivePrincipal(ctx context.Context, userID int64) (*Principal, error)
}

type TokenResolver interface {
	Resolve(ctx context.Context, plain string) (int64, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, bearer string) (*Principal, error)
}

type Service struct {
	repo   RepositoryAPI
	tokens TokenResolver
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate resolves a bearer token to its active owner. Every token or account
// problem yields ErrUnauthenticated; only storage failures surface as internal errors.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*Principal, error) {
	if bearer == "" {
		return nil, internal.ErrUnauthenticated
	}

	userID, err := s.tokens.Resolve(ctx, bearer)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) || errors.Is(err, token.ErrTokenExpired) {
			s.logger.DebugContext(ctx, "token rejected", "error", err)
			return nil, internal.ErrUnauthenticated.WithCause(err)
		}
		return nil, internal.NewInternalError("failed to resolve token", err)
	}

	p, err := s.repo.GetActivePrincipal(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			s.logger.InfoContext(ctx, "token owner missing or inactive", "user_id", userID)
			return nil, internal.ErrUnauthenticated
		}
		return nil, internal.NewInternalError("failed to load principal", err)
	}

	return p, nil
}
