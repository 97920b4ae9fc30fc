package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/transport"
)

type PermissionAuthorizer interface {
	HasRoleCtx(ctx context.Context, p *Principal, role string) (bool, error)
	HasPermission(ctx context.Context, p *Principal, permission string) (bool, error)
	CanManageUsersCtx(ctx context.Context, p *Principal) (bool, error)
}

type decision func(ctx context.Context, p *Principal) (bool, error)

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
}

func NewRBACAuthorization(baseHandler *transport.BaseHandler, authorizer PermissionAuthorizer) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: baseHandler,
		authorizer:  authorizer,
	}
}

func (ra *RBACAuthorization) check(next http.Handler, what string, allow decision) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: principal not found in context")
			ra.WriteAppError(w, r, internal.ErrUnauthenticated)
			return
		}

		hasAccess, err := allow(r.Context(), p)
		if err != nil {
			ra.WriteAppError(w, r, internal.NewInternalError("authorization check failed", err))
			return
		}

		if !hasAccess {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", p.ID,
				"required", what,
				"roles", p.Roles,
				"permissions", p.Permissions)
			ra.WriteAppError(w, r, internal.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (ra *RBACAuthorization) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.check(next, "role:"+role, func(ctx context.Context, p *Principal) (bool, error) {
			return ra.authorizer.HasRoleCtx(ctx, p, role)
		})
	}
}

func (ra *RBACAuthorization) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.check(next, "permission:"+permission, func(ctx context.Context, p *Principal) (bool, error) {
			return ra.authorizer.HasPermission(ctx, p, permission)
		})
	}
}

// RequireUserManager admits callers holding the admin role and the manage permission.
func (ra *RBACAuthorization) RequireUserManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.check(next, "user-manager", ra.authorizer.CanManageUsersCtx)
	}
}
