package user

import "time"

const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
	StatusDeleted     = "deleted"
)

type User struct {
	ID              int64      `gorm:"primaryKey"`
	Name            string     `gorm:"column:name;size:255;not null"`
	Email           string     `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	Status          string     `gorm:"column:status;size:32;not null;default:active"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:125;uniqueIndex;not null"`
	GuardName string    `gorm:"column:guard_name;size:125;not null;default:user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:125;uniqueIndex;not null"`
	GuardName string    `gorm:"column:guard_name;size:125;not null;default:user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleID int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// UserPermission rows are a snapshot of the role's permissions taken at sync time.
type UserPermission struct {
	UserID       int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}

type PersonalAccessToken struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"column:user_id;index;not null"`
	Name       string     `gorm:"column:name;size:255;not null"`
	TokenHash  string     `gorm:"column:token_hash;size:64;uniqueIndex;not null"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (PersonalAccessToken) TableName() string {
	return "personal_access_tokens"
}

// Models lists every row type, in dependency order, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&Permission{},
		&RolePermission{},
		&UserRole{},
		&UserPermission{},
		&PersonalAccessToken{},
	}
}
