package user

import (
	"errors"
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
)

type Status string

const (
	StatusActive      Status = userDatamodel.StatusActive
	StatusDeactivated Status = userDatamodel.StatusDeactivated
	StatusDeleted     Status = userDatamodel.StatusDeleted
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeactivated, StatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Status          Status     `json:"status"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Roles           []string   `json:"roles"`
	Permissions     []string   `json:"permissions"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsDeactivated() bool {
	return u.Status == StatusDeactivated
}

func (u *User) IsDeleted() bool {
	return u.Status == StatusDeleted
}

func (u *User) MarkActive() {
	u.setStatus(StatusActive)
}

func (u *User) MarkDeactivated() {
	u.setStatus(StatusDeactivated)
}

func (u *User) MarkDeleted() {
	u.setStatus(StatusDeleted)
}

func (u *User) setStatus(s Status) {
	u.Status = s
	u.UpdatedAt = time.Now()
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// View is the public representation of a user. It never carries the password hash.
type View struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Status      Status    `json:"status"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) ToView() View {
	return View{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Status:      u.Status,
		Roles:       nonNil(u.Roles),
		Permissions: nonNil(u.Permissions),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Status:          string(u.Status),
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Status:          Status(u.Status),
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		Roles:           []string{},
		Permissions:     []string{},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
