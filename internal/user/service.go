package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/auth"
	"github.com/frahmantamala/user-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/rbac"
	"github.com/frahmantamala/user-management/internal/token"
)

const TokenTypeBearer = "Bearer"

type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type RoleServiceAPI interface {
	AssignRole(ctx context.Context, userID int64, roleName string) (*rbac.Role, error)
	RoleNames(ctx context.Context, userID int64) ([]string, error)
	PermissionNames(ctx context.Context, userID int64) ([]string, error)
}

type TokenServiceAPI interface {
	Issue(ctx context.Context, userID int64) (*token.IssuedToken, error)
	RevokeAll(ctx context.Context, userID int64) (int64, error)
}

// RoleOverridePolicy decides whether a caller may pick the role of a new account.
type RoleOverridePolicy interface {
	CanManageUsers(p *auth.Principal) bool
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config struct {
	DefaultRole string
	BCryptCost  int
}

type Service struct {
	repo      RepositoryAPI
	roles     RoleServiceAPI
	tokens    TokenServiceAPI
	tx        Transactor
	policy    RoleOverridePolicy
	hooks     Hooks
	cfg       Config
	dummyHash string
	logger    *slog.Logger
}

func NewService(
	repo RepositoryAPI,
	roles RoleServiceAPI,
	tokens TokenServiceAPI,
	tx Transactor,
	policy RoleOverridePolicy,
	cfg Config,
	logger *slog.Logger,
) (*Service, error) {
	if cfg.DefaultRole == "" {
		return nil, fmt.Errorf("user: default role is required")
	}

	dummy, err := auth.DummyHash(cfg.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("user: prepare dummy hash: %w", err)
	}

	return &Service{
		repo:      repo,
		roles:     roles,
		tokens:    tokens,
		tx:        tx,
		policy:    policy,
		cfg:       cfg,
		dummyHash: dummy,
		logger:    logger,
	}, nil
}

func (s *Service) SetHooks(h Hooks) {
	s.hooks = h
}

// Register creates an account with the default role. The requested role is honored
// only when caller may manage users; otherwise it is silently replaced.
func (s *Service) Register(ctx context.Context, req RegisterRequest, caller *auth.Principal) (*User, error) {
	req.Normalize()

	role := s.cfg.DefaultRole
	if req.Role != "" {
		if caller != nil && s.policy != nil && s.policy.CanManageUsers(caller) {
			role = req.Role
		} else {
			s.logger.InfoContext(ctx, "role override ignored", "requested_role", req.Role, "default_role", role)
		}
	}

	return s.createWithRole(ctx, req, role)
}

// Create is the administrative variant of Register. Authorization is enforced by the route.
func (s *Service) Create(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Normalize()

	role := req.Role
	if role == "" {
		role = s.cfg.DefaultRole
	}

	return s.createWithRole(ctx, req, role)
}

func (s *Service) createWithRole(ctx context.Context, req RegisterRequest, role string) (*User, error) {
	if err := s.validateRegistration(ctx, req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	var created *User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row := &userDatamodel.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Status:       string(StatusActive),
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return err
		}

		assigned, err := s.roles.AssignRole(ctx, row.ID, role)
		if err != nil {
			return fmt.Errorf("assign role: %w", err)
		}

		u := FromDataModel(row)
		u.Roles = []string{assigned.Name}
		u.Permissions = append([]string{}, assigned.Permissions...)

		if s.hooks.Registered != nil {
			if err := s.hooks.Registered.OnRegistered(ctx, u); err != nil {
				return fmt.Errorf("registered hook: %w", err)
			}
		}

		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, internal.ErrEmailTaken.WithCause(err)
		}
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.ErrorContext(ctx, "registration rolled back", "email", req.Email, "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "role", role)
	return created, nil
}

func (s *Service) validateRegistration(ctx context.Context, req RegisterRequest) error {
	appErr := req.Validate()
	if hasFieldError(appErr, "email") {
		return appErr
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return internal.NewInternalError("failed to check email", err)
	}
	if exists {
		return validation.Merge(appErr, internal.ValidationError{
			Field:   "email",
			Message: "The email has already been taken.",
			Code:    string(internal.ErrCodeEmailTaken),
		})
	}

	if appErr != nil {
		return appErr
	}
	return nil
}

// Login verifies credentials and issues a new token. Unknown email, wrong password and
// inactive accounts are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Normalize()
	if appErr := req.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = auth.VerifyPassword(s.dummyHash, req.Password)
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to look up user", err)
	}

	if err := auth.VerifyPassword(row.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.ErrorContext(ctx, "password verification failed", "user_id", row.ID, "error", err)
		}
		return nil, internal.ErrInvalidCredentials
	}

	u := FromDataModel(row)
	if !u.IsActive() {
		s.logger.InfoContext(ctx, "login refused for inactive user", "user_id", u.ID, "status", u.Status)
		return nil, internal.ErrInvalidCredentials
	}

	if err := s.loadAccess(ctx, u); err != nil {
		return nil, err
	}

	issued, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	if s.hooks.LoggedIn != nil {
		if err := s.hooks.LoggedIn.OnLoggedIn(ctx, u, issued.PlainText); err != nil {
			s.logger.WarnContext(ctx, "logged-in hook failed", "user_id", u.ID, "error", err)
		}
	}

	return &LoginResult{
		AccessToken: issued.PlainText,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   issued.ExpiresAt,
		Roles:       u.Roles,
		Permissions: u.Permissions,
		User:        u.ToView(),
	}, nil
}

// Show returns the user with roles and permissions. It does not mutate anything.
func (s *Service) Show(ctx context.Context, userID int64) (*User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.hooks.Shown != nil {
		if err := s.hooks.Shown.OnShown(ctx, u); err != nil {
			s.logger.WarnContext(ctx, "shown hook failed", "user_id", u.ID, "error", err)
		}
	}

	return u, nil
}

// Logout revokes every token of the user. Calling it again is harmless.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	revoked, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to revoke tokens", err)
	}

	if s.hooks.LoggedOut != nil {
		if err := s.hooks.LoggedOut.OnLoggedOut(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "logged-out hook failed", "user_id", userID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "user logged out", "user_id", userID, "revoked_tokens", revoked)
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	u := FromDataModel(row)
	if err := s.loadAccess(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	row, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	u := FromDataModel(row)
	if err := s.loadAccess(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetStatus moves a user between active, deactivated and deleted. Leaving the active
// state revokes every token so existing sessions end immediately.
func (s *Service) SetStatus(ctx context.Context, email string, status Status) (*User, error) {
	if !status.Valid() {
		return nil, internal.NewValidationFieldError("status", fmt.Sprintf("The selected status %q is invalid.", status), internal.ErrCodeInvalidStatus)
	}

	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	switch status {
	case StatusActive:
		u.MarkActive()
	case StatusDeactivated:
		u.MarkDeactivated()
	case StatusDeleted:
		u.MarkDeleted()
	}

	if err := s.repo.UpdateStatus(ctx, u.ID, string(u.Status)); err != nil {
		return nil, internal.NewInternalError("failed to update status", err)
	}

	if !u.IsActive() {
		if _, err := s.tokens.RevokeAll(ctx, u.ID); err != nil {
			return nil, internal.NewInternalError("failed to revoke tokens", err)
		}
	}

	s.logger.InfoContext(ctx, "user status changed", "user_id", u.ID, "status", u.Status)
	return u, nil
}

func (s *Service) loadAccess(ctx context.Context, u *User) error {
	roles, err := s.roles.RoleNames(ctx, u.ID)
	if err != nil {
		return internal.NewInternalError("failed to load roles", err)
	}
	perms, err := s.roles.PermissionNames(ctx, u.ID)
	if err != nil {
		return internal.NewInternalError("failed to load permissions", err)
	}
	u.Roles = roles
	u.Permissions = perms
	return nil
}

func hasFieldError(appErr *internal.AppError, field string) bool {
	if appErr == nil {
		return false
	}
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok {
		return false
	}
	for _, e := range details.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
