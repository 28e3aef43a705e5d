package domain

import "time"

// UserRole is the coarse role assigned to an admin-panel user.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleViewer     UserRole = "VIEWER"
)

// Permission is a fine-grained permission tag checked before protected operations.
type Permission string

const (
	PermLoansView   Permission = "loans.view"
	PermLoansManage Permission = "loans.manage"
	PermUsersManage Permission = "users.manage"
)

// rolePermissions maps each role to the permission tags it carries.
var rolePermissions = map[UserRole][]Permission{
	RoleSuperAdmin: {PermLoansView, PermLoansManage, PermUsersManage},
	RoleAdmin:      {PermLoansView, PermLoansManage},
	RoleViewer:     {PermLoansView},
}

// HasPermission reports whether the role carries the given permission tag.
func (r UserRole) HasPermission(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// User represents an admin-panel user account.
type User struct {
	UserID       string   `json:"userID"` // 24-hex object id
	LoginName    string   `json:"loginName"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	IsActive     bool     `json:"isActive"`

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
}
