package model

// Role is the closed set of account roles the backend knows about.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

// Roles lists every assignable role, in display order.
var Roles = []Role{RoleUser, RoleAdmin, RoleInstructor}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleInstructor:
		return true
	}
	return false
}

// CanManageSessions reports whether the role may create, edit and delete
// sessions on the schedule.
func (r Role) CanManageSessions() bool {
	return r == RoleAdmin
}

// CanManageUsers reports whether the role may change other users' roles.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// User is an account as returned by the backend.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
