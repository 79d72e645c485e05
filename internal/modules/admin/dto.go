package admin

import "atlas/internal/domain"

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type RoleInfo struct {
	Role         domain.Role         `json:"role"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

type UserList struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
}
