package postgres

import (
	"context"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/core/db"
	"github.com/frahmantamala/user-management/internal/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RBACRepository struct {
	db *gorm.DB
}

func NewRBACRepository(gdb *gorm.DB) rbac.RepositoryAPI {
	return &RBACRepository{db: gdb}
}

// FindOrCreateRole tolerates a concurrent first insert: the unique name absorbs the
// race and the row is re-read afterwards.
func (r *RBACRepository) FindOrCreateRole(ctx context.Context, name, guard string) (*userDatamodel.Role, error) {
	conn := db.Conn(ctx, r.db)

	candidate := &userDatamodel.Role{Name: name, GuardName: guard}
	err := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return nil, err
	}

	var role userDatamodel.Role
	if err := conn.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) FindOrCreatePermission(ctx context.Context, name, guard string) (*userDatamodel.Permission, error) {
	conn := db.Conn(ctx, r.db)

	candidate := &userDatamodel.Permission{Name: name, GuardName: guard}
	err := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return nil, err
	}

	var perm userDatamodel.Permission
	if err := conn.Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *RBACRepository) AttachPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]userDatamodel.RolePermission, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		rows = append(rows, userDatamodel.RolePermission{RoleID: roleID, PermissionID: id})
	}

	return db.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *RBACRepository) RolePermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := db.Conn(ctx, r.db).
		Model(&userDatamodel.RolePermission{}).
		Where("role_id = ?", roleID).
		Order("permission_id ASC").
		Pluck("permission_id", &ids).Error
	return ids, err
}

func (r *RBACRepository) RolePermissionNames(ctx context.Context, roleID int64) ([]string, error) {
	var names []string
	err := db.Conn(ctx, r.db).
		Model(&userDatamodel.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	return names, err
}

// SyncUserRoles replaces the user's role set.
func (r *RBACRepository) SyncUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	conn := db.Conn(ctx, r.db)

	if err := conn.Where("user_id = ?", userID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}

	rows := make([]userDatamodel.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		rows = append(rows, userDatamodel.UserRole{UserID: userID, RoleID: id})
	}
	return conn.Create(&rows).Error
}

// SyncUserPermissions replaces the user's permission snapshot.
func (r *RBACRepository) SyncUserPermissions(ctx context.Context, userID int64, permissionIDs []int64) error {
	conn := db.Conn(ctx, r.db)

	if err := conn.Where("user_id = ?", userID).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
		return err
	}
	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]userDatamodel.UserPermission, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		rows = append(rows, userDatamodel.UserPermission{UserID: userID, PermissionID: id})
	}
	return conn.Create(&rows).Error
}

func (r *RBACRepository) UserRoleNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := db.Conn(ctx, r.db).
		Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	return names, err
}

func (r *RBACRepository) UserPermissionNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := db.Conn(ctx, r.db).
		Model(&userDatamodel.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	return names, err
}
