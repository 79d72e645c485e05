package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleLearner  Role = "learner"
	RoleGeneral  Role = "general"
)

// Capabilities is the closed permission set attached to each role.
// Call sites ask for a capability, never compare role strings.
type Capabilities struct {
	BookWorkspace    bool `json:"can_book_workspace"`
	ViewAnalytics    bool `json:"can_view_analytics"`
	ManageUsers      bool `json:"can_manage_users"`
	ManageWorkspaces bool `json:"can_manage_workspaces"`
	ManageRoles      bool `json:"can_manage_roles"`
}

var roleCapabilities = map[Role]Capabilities{
	RoleAdmin: {
		BookWorkspace:    true,
		ViewAnalytics:    true,
		ManageUsers:      true,
		ManageWorkspaces: true,
		ManageRoles:      true,
	},
	RoleEmployee: {
		BookWorkspace: true,
		ViewAnalytics: true,
	},
	RoleLearner: {
		BookWorkspace: true,
	},
	RoleGeneral: {
		BookWorkspace: true,
	},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

func (r Role) Capabilities() Capabilities {
	return roleCapabilities[r]
}

// Privileged roles see all bookings; everyone else is scoped to their own.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleLearner, RoleGeneral}
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Department   string    `json:"department,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
