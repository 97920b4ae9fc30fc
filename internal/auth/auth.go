package auth

import (
	"context"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/rbac"
	"github.com/frahmantamala/user-management/pkg/logger"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

func (p *Principal) HasAnyPermission(permissions []string) bool {
	return rbac.HasAny(p.Permissions, permissions...)
}

// WithPrincipal stores p in ctx and tags the request logger with its id.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	ctx = context.WithValue(ctx, ContextPrincipalKey, p)
	ctx = internal.ContextWithUserID(ctx, p.ID)
	return logger.With(ctx, "user_id", p.ID)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}
