package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	FindOrCreateRole(ctx context.Context, name, guard string) (*userDatamodel.Role, error)
	FindOrCreatePermission(ctx context.Context, name, guard string) (*userDatamodel.Permission, error)
	AttachPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	RolePermissionIDs(ctx context.Context, roleID int64) ([]int64, error)
	RolePermissionNames(ctx context.Context, roleID int64) ([]string, error)
	SyncUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
	SyncUserPermissions(ctx context.Context, userID int64, permissionIDs []int64) error
	UserRoleNames(ctx context.Context, userID int64) ([]string, error)
	UserPermissionNames(ctx context.Context, userID int64) ([]string, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo   RepositoryAPI
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

func (s *Service) FindOrCreateRole(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoleNameRequired
	}

	role, err := s.repo.FindOrCreateRole(ctx, name, DefaultGuard)
	if err != nil {
		return nil, fmt.Errorf("find or create role %q: %w", name, err)
	}

	perms, err := s.repo.RolePermissionNames(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("role permissions %q: %w", name, err)
	}

	return RoleFromDataModel(role, perms), nil
}

func (s *Service) FindOrCreatePermission(ctx context.Context, name string) (*Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("permission name is required")
	}

	perm, err := s.repo.FindOrCreatePermission(ctx, name, DefaultGuard)
	if err != nil {
		return nil, fmt.Errorf("find or create permission %q: %w", name, err)
	}
	return PermissionFromDataModel(perm), nil
}

// GrantPermissionsToRole adds permissions to a role, creating either side if absent.
// Users already holding the role keep their snapshot until AssignRole runs again.
func (s *Service) GrantPermissionsToRole(ctx context.Context, roleName string, permissions ...string) (*Role, error) {
	if strings.TrimSpace(roleName) == "" {
		return nil, ErrRoleNameRequired
	}

	var role *Role
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.FindOrCreateRole(ctx, strings.TrimSpace(roleName), DefaultGuard)
		if err != nil {
			return fmt.Errorf("find or create role %q: %w", roleName, err)
		}

		ids := make([]int64, 0, len(permissions))
		for _, name := range permissions {
			perm, err := s.FindOrCreatePermission(ctx, name)
			if err != nil {
				return err
			}
			ids = append(ids, perm.ID)
		}

		if err := s.repo.AttachPermissions(ctx, r.ID, ids); err != nil {
			return fmt.Errorf("attach permissions to %q: %w", roleName, err)
		}

		names, err := s.repo.RolePermissionNames(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("role permissions %q: %w", roleName, err)
		}
		role = RoleFromDataModel(r, names)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "permissions granted to role", "role", role.Name, "permissions", permissions)
	return role, nil
}

// AssignRole replaces the user's roles with exactly roleName and copies the role's
// current permissions into the user's permission snapshot.
func (s *Service) AssignRole(ctx context.Context, userID int64, roleName string) (*Role, error) {
	if strings.TrimSpace(roleName) == "" {
		return nil, ErrRoleNameRequired
	}

	var role *Role
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.FindOrCreateRole(ctx, strings.TrimSpace(roleName), DefaultGuard)
		if err != nil {
			return fmt.Errorf("find or create role %q: %w", roleName, err)
		}

		if err := s.repo.SyncUserRoles(ctx, userID, []int64{r.ID}); err != nil {
			return fmt.Errorf("sync roles for user %d: %w", userID, err)
		}

		permIDs, err := s.repo.RolePermissionIDs(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("role permission ids %q: %w", roleName, err)
		}

		if err := s.repo.SyncUserPermissions(ctx, userID, permIDs); err != nil {
			return fmt.Errorf("sync permissions for user %d: %w", userID, err)
		}

		names, err := s.repo.RolePermissionNames(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("role permissions %q: %w", roleName, err)
		}
		role = RoleFromDataModel(r, names)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "role assigned", "user_id", userID, "role", role.Name, "permissions", len(role.Permissions))
	return role, nil
}

func (s *Service) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	names, err := s.repo.UserRoleNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("role names for user %d: %w", userID, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *Service) PermissionNames(ctx context.Context, userID int64) ([]string, error) {
	names, err := s.repo.UserPermissionNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("permission names for user %d: %w", userID, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
