package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/user-management/internal/auth"
	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetActivePrincipal(ctx context.Context, userID int64) (*auth.Principal, error) {
	conn := r.db.WithContext(ctx)

	var u userDatamodel.User
	err := conn.Where("id = ? AND status = ?", userID, userDatamodel.StatusActive).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}

	roles := []string{}
	err = conn.Model(&userDatamodel.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, err
	}

	permissions := []string{}
	err = conn.Model(&userDatamodel.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, err
	}

	return &auth.Principal{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}
