package user

import (
	"strings"

	"github.com/handywriterz/core/internal/models"
)

func toResponse(u *models.UserModel) *userResponse {
	role := u.Role()
	if role == "" {
		role = models.RoleUser
		if u.Provider == models.ProviderAdmin {
			role = models.RoleAdmin
		}
	}
	return &userResponse{
		ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name, Avatar: u.Avatar,
		Provider: u.Provider, Role: role,
		LastLoginTime: u.LastLoginTime, LastLoginIP: u.LastLoginIP,
		CreatedAt: u.CreatedAt,
	}
}

func toResponses(users []models.UserModel) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	return out
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleEditor, models.RoleUser:
		return true
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
