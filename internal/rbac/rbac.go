package rbac

import (
	"errors"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

const DefaultGuard = "user"

var ErrRoleNameRequired = errors.New("role name is required")

type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	GuardName   string   `json:"guard_name"`
	Permissions []string `json:"permissions"`
}

type Permission struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	GuardName string `json:"guard_name"`
}

func RoleFromDataModel(r *userDatamodel.Role, permissions []string) *Role {
	if permissions == nil {
		permissions = []string{}
	}
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		GuardName:   r.GuardName,
		Permissions: permissions,
	}
}

func PermissionFromDataModel(p *userDatamodel.Permission) *Permission {
	return &Permission{
		ID:        p.ID,
		Name:      p.Name,
		GuardName: p.GuardName,
	}
}

func HasAny(held []string, required ...string) bool {
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}
