package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	authPostgres "github.com/frahmantamala/user-management/internal/auth/postgres"
	"github.com/frahmantamala/user-management/internal/core/db"
	"github.com/frahmantamala/user-management/internal/core/events"
	"github.com/frahmantamala/user-management/internal/rbac"
	rbacPostgres "github.com/frahmantamala/user-management/internal/rbac/postgres"
	"github.com/frahmantamala/user-management/internal/token"
	tokenPostgres "github.com/frahmantamala/user-management/internal/token/postgres"
	"github.com/frahmantamala/user-management/internal/user"
	userPostgres "github.com/frahmantamala/user-management/internal/user/postgres"
	"github.com/frahmantamala/user-management/pkg/logger"
	"gorm.io/gorm"
)

// application holds the wired services shared by every command.
type application struct {
	Config  *internal.Config
	DB      *gorm.DB
	Logger  *slog.Logger
	Bus     *events.EventBus
	Checker *auth.DefaultPermissionChecker
	Roles   *rbac.Service
	Tokens  *token.Service
	Auth    *auth.Service
	Users   *user.Service
}

func newApplication() (*application, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.L()

	gdb, err := db.Open(cfg.Database, !cfg.IsProduction() && cfg.Observability.Logging.Level == "debug")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tx := db.NewTransactor(gdb)
	checker := auth.NewPermissionChecker(cfg.User.AdminRole, cfg.User.ManagePermission)

	roles := rbac.NewService(rbacPostgres.NewRBACRepository(gdb), tx, lg)

	tokens, err := token.NewService(tokenPostgres.NewTokenRepository(gdb), token.Options{
		Name:      cfg.Security.TokenName,
		Format:    cfg.Security.TokenFormat,
		TTL:       cfg.Security.TokenTTL,
		JWTSecret: cfg.Security.JWTSecret,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	users, err := user.NewService(
		userPostgres.NewUserRepository(gdb),
		roles,
		tokens,
		tx,
		checker,
		user.Config{DefaultRole: cfg.User.DefaultRole, BCryptCost: cfg.Security.BCryptCost},
		lg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user service: %w", err)
	}

	bus := events.NewEventBus(lg)
	bus.SubscribeAll(events.UserEventTypes, events.AuditLogHandler(lg))
	users.SetHooks(user.HooksFrom(events.NewUserEventPublisher(bus)))

	return &application{
		Config:  cfg,
		DB:      gdb,
		Logger:  lg,
		Bus:     bus,
		Checker: checker,
		Roles:   roles,
		Tokens:  tokens,
		Auth:    auth.NewService(authPostgres.NewRepository(gdb), tokens, lg),
		Users:   users,
	}, nil
}

func (a *application) Close() {
	a.Bus.Wait()

	sqlDB, err := a.DB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}
