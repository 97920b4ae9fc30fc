package auth

import (
	"net/http"

	"github.com/frahmantamala/user-management/internal/transport"
)

// Authenticator is the bearer-token middleware.
type Authenticator struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewAuthenticator(baseHandler *transport.BaseHandler, svc ServiceAPI) *Authenticator {
	return &Authenticator{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Require rejects requests without a valid bearer token of an active user.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Service.Authenticate(r.Context(), a.ExtractTokenFromHeader(r))
		if err != nil {
			a.WriteAppError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Optional attaches the principal when the token is valid and otherwise treats the
// request as anonymous. It never rejects.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := a.ExtractTokenFromHeader(r)
		if bearer == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := a.Service.Authenticate(r.Context(), bearer)
		if err != nil {
			a.Logger.DebugContext(r.Context(), "optional auth: continuing anonymously", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
