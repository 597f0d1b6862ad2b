package models

import (
	"time"

	"gorm.io/datatypes"
)

// Provider names the identity system that owns an account.
type Provider string

const (
	ProviderAdmin Provider = "admin"
	ProviderSite  Provider = "site"
)

// Role values stored under the "role" key of UserModel.Metadata.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

// UserModel is an account of either identity provider.
// Site accounts carry their role in Metadata["role"]; admin accounts are admins by construction.
type UserModel struct {
	Base
	Username      string            `json:"username"      gorm:"size:191;not null;uniqueIndex:idx_users_provider_username"`
	Email         string            `json:"email"         gorm:"size:191;index"`
	Name          string            `json:"name"          gorm:"size:255"`
	Avatar        string            `json:"avatar"        gorm:"size:1024"`
	Password      string            `json:"-"             gorm:"size:255;not null"`
	Provider      Provider          `json:"provider"      gorm:"size:16;not null;uniqueIndex:idx_users_provider_username"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	LastLoginTime *time.Time        `json:"lastLoginTime"`
	LastLoginIP   string            `json:"lastLoginIp"   gorm:"size:64"`
}

func (UserModel) TableName() string { return "users" }

// Role returns the role stored in metadata, or "" when absent.
func (u *UserModel) Role() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	role, _ := u.Metadata["role"].(string)
	return role
}
