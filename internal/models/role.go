package models

import "time"

// Role is the effective role authorization decisions are based on. Each
// user has exactly one; missing rows default to customer.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleCustomer
}

// RoleAssignment maps a user to their effective role. user_id carries a
// unique constraint; writes go through an atomic upsert so there is never a
// window with zero roles for a user.
type RoleAssignment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
