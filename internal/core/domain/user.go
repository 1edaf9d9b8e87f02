package domain

import "time"

// UserRole determines the workflow actions a user may perform.
type UserRole string

const (
	RoleStaff      UserRole = "STAFF"
	RoleReviewer   UserRole = "REVIEWER"
	RoleApprover   UserRole = "APPROVER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// CanOverrideStatus reports whether the role may write a document status
// without holding the matching reviewer/approver assignment.
func (r UserRole) CanOverrideStatus() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a staff member of the organisation.
type User struct {
	UserID       string     `json:"userID"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	PasswordHash string     `json:"-"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}
