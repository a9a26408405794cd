package core

// Role is the access tier resolved for a wallet address.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleValidator  Role = "VALIDATOR"

	// RoleOperator is the default for wallets absent from the allow-list.
	RoleOperator Role = "OPERATOR"
)

// IsAdmin reports whether the role belongs to the administrative set that may
// pass the admin challenge gate.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleValidator:
		return true
	}
	return false
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r.IsAdmin() || r == RoleOperator
}

// Permission is a capability tag carried in token claims. Permissions are
// explicit data: a role determines the default set, but an allow-list entry
// may override it.
type Permission string

const (
	PermApprove     Permission = "approve"
	PermReject      Permission = "reject"
	PermReview      Permission = "review"
	PermManageUsers Permission = "manage_users"
	PermViewStats   Permission = "view_stats"
)

// DefaultPermissions returns the canonical permission set for a role.
// VALIDATOR is a reviewing role: it approves and rejects submissions but
// never manages users or reads platform statistics.
func DefaultPermissions(r Role) []Permission {
	switch r {
	case RoleSuperAdmin:
		return []Permission{PermApprove, PermReject, PermReview, PermManageUsers, PermViewStats}
	case RoleAdmin:
		return []Permission{PermApprove, PermReject, PermReview, PermViewStats}
	case RoleValidator:
		return []Permission{PermApprove, PermReject, PermReview}
	default:
		return nil
	}
}
