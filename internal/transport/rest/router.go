package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/frahmantamala/user-management/internal/transport/middleware"
	"github.com/frahmantamala/user-management/internal/transport/swagger"
	"github.com/frahmantamala/user-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
)

type Dependencies struct {
	DB            *sql.DB
	DBComponent   string
	Base          *transport.BaseHandler
	User          *user.Handler
	Authenticator *auth.Authenticator
	Authorization *auth.RBACAuthorization
	Logger        *slog.Logger
}

type Options struct {
	BasePath       string
	AllowedOrigins string
	// LoginRateLimit is attempts per IP per minute; zero disables limiting.
	LoginRateLimit int
	Production     bool
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies, opts Options) {
	healthHandler := NewHealthHandler(deps.DB, deps.DBComponent)

	router.Use(middleware.ContextLogger(deps.Logger))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Base))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.SecureHeaders(opts.Production))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		deps.Base.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		deps.Base.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// OpenAPI document and UI live outside the API prefix.
	router.Method(http.MethodGet, swagger.DocumentPath, swagger.DocumentHandler())
	router.Handle("/swagger/*", swagger.Handler())

	api := func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.User == nil {
			return
		}

		r.Route("/user", func(ur chi.Router) {
			ur.With(deps.Authenticator.Optional).Post("/register", deps.User.Register)

			ur.Group(func(lr chi.Router) {
				if opts.LoginRateLimit > 0 {
					lr.Use(loginLimiter(deps.Base, opts.LoginRateLimit))
				}
				lr.Post("/login", deps.User.Login)
			})

			ur.Group(func(pr chi.Router) {
				pr.Use(deps.Authenticator.Require)

				pr.Get("/info", deps.User.Info)
				pr.Post("/logout", deps.User.Logout)

				pr.Group(func(mr chi.Router) {
					mr.Use(deps.Authorization.RequireUserManager())
					mr.Post("/create", deps.User.Create)
				})
			})
		})
	}

	basePath := strings.TrimRight(opts.BasePath, "/")
	if basePath == "" {
		router.Group(api)
		return
	}
	router.Route(basePath, api)
}

func loginLimiter(base *transport.BaseHandler, perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			base.WriteError(w, http.StatusTooManyRequests, internal.ErrCodeTooManyRequests, "Too many login attempts, please try again later.", nil)
		}),
	)
}
