package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/transport"
	"github.com/frahmantamala/user-management/internal/transport/rest"
	"github.com/frahmantamala/user-management/internal/transport/swagger"
	"github.com/frahmantamala/user-management/internal/user"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
			os.Exit(1)
		}
	},
}

func startHTTPServer() error {
	app, err := newApplication()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer app.Close()

	if _, err := swagger.Load(context.Background()); err != nil {
		return err
	}

	router, err := setupRoutes(app)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	app.Logger.Info("starting HTTP server", "address", addr, "base_path", app.Config.Server.BasePath)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: app.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       app.Config.Server.ReadTimeout,
		WriteTimeout:      app.Config.Server.WriteTimeout,
		IdleTimeout:       app.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	app.Logger.Info("server stopped")
	return nil
}

func setupRoutes(app *application) (*chi.Mux, error) {
	sqlDB, err := app.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql.DB: %w", err)
	}

	base := transport.NewBaseHandler(app.Logger)
	router := chi.NewRouter()

	rest.RegisterAllRoutes(router, rest.Dependencies{
		DB:            sqlDB,
		DBComponent:   app.Config.Database.Driver,
		Base:          base,
		User:          user.NewHandler(base, app.Users),
		Authenticator: auth.NewAuthenticator(base, app.Auth),
		Authorization: auth.NewRBACAuthorization(base, app.Checker),
		Logger:        app.Logger,
	}, rest.Options{
		BasePath:       app.Config.Server.BasePath,
		AllowedOrigins: app.Config.Server.AllowedOrigins,
		LoginRateLimit: app.Config.Server.LoginRateLimit,
		Production:     app.Config.IsProduction(),
	})

	return router, nil
}
