package user

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/handywriterz/core/internal/models"
)

// CreateUserDTO creates an account of either provider.
type CreateUserDTO struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Password string          `json:"password"`
	Provider models.Provider `json:"provider"`
	Role     string          `json:"role"`
}

func (d CreateUserDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&d.Email, is.EmailFormat),
		validation.Field(&d.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&d.Provider, validation.In(models.ProviderAdmin, models.ProviderSite)),
		validation.Field(&d.Role, validation.In(models.RoleAdmin, models.RoleEditor, models.RoleUser)),
	)
}

type UpdateRoleDTO struct {
	Role string `json:"role" binding:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ListQuery struct {
	Provider string `form:"provider"`
	Search   string `form:"search"`
}

type userResponse struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Avatar        string          `json:"avatar"`
	Provider      models.Provider `json:"provider"`
	Role          string          `json:"role"`
	LastLoginTime *time.Time      `json:"lastLoginTime"`
	LastLoginIP   string          `json:"lastLoginIp"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type sessionResponse struct {
	ID      string    `json:"id"`
	UA      string    `json:"ua"`
	IP      string    `json:"ip"`
	Date    time.Time `json:"date"`
	Current bool      `json:"current"`
}

var (
	ErrUsernameTaken     = errors.New("username already exists")
	ErrInvalidRole       = errors.New("role must be admin, editor or user")
	ErrRoleFixed         = errors.New("admin provider accounts are always admins")
	ErrWrongPassword     = errors.New("wrong password")
	ErrPasswordSameAsOld = errors.New("new password must differ from the old one")
)
