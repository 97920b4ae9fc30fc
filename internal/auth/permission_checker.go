package auth

import "context"

type PermissionChecker interface {
	HasRole(p *Principal, role string) bool
	HasAnyPermission(p *Principal, permissions []string) bool
	CanManageUsers(p *Principal) bool
	IsAdmin(p *Principal) bool
}

type DefaultPermissionChecker struct {
	AdminRole        string
	ManagePermission string
}

func NewPermissionChecker(adminRole, managePermission string) *DefaultPermissionChecker {
	return &DefaultPermissionChecker{
		AdminRole:        adminRole,
		ManagePermission: managePermission,
	}
}

func (c *DefaultPermissionChecker) HasRoleCtx(ctx context.Context, p *Principal, role string) (bool, error) {
	return c.HasRole(p, role), nil
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, p *Principal, permission string) (bool, error) {
	return c.HasAnyPermission(p, []string{permission}), nil
}

func (c *DefaultPermissionChecker) CanManageUsersCtx(ctx context.Context, p *Principal) (bool, error) {
	return c.CanManageUsers(p), nil
}

func (c *DefaultPermissionChecker) HasRole(p *Principal, role string) bool {
	return p != nil && p.HasRole(role)
}

func (c *DefaultPermissionChecker) HasAnyPermission(p *Principal, permissions []string) bool {
	return p != nil && p.HasAnyPermission(permissions)
}

// CanManageUsers requires both the admin role and the manage permission.
func (c *DefaultPermissionChecker) CanManageUsers(p *Principal) bool {
	return c.IsAdmin(p) && c.HasAnyPermission(p, []string{c.ManagePermission})
}

func (c *DefaultPermissionChecker) IsAdmin(p *Principal) bool {
	return c.HasRole(p, c.AdminRole)
}
