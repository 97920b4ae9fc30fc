package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/core/common/validation"
)

const (
	maxNameLength     = 255
	maxEmailLength    = 255
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

func (r RegisterRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", r.Name).Required().MaxLength(maxNameLength)
	v.Field("email", r.Email).Required().Email().MaxLength(maxEmailLength)
	v.Field("password", r.Password).Required().MinLength(minPasswordLength).MaxBytes(maxPasswordBytes).Confirmed(r.PasswordConfirmation)
	v.Field("role", r.Role).MaxLength(125)
	return v.Validate()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r LoginRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", r.Email).Required().Email()
	v.Field("password", r.Password).Required()
	return v.Validate()
}

type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
	User        View       `json:"user"`
}

type InfoResponse struct {
	Info        View     `json:"info"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
