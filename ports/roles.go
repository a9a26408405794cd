package ports

import "github.com/chainregistry/warden/core"

// RoleResolver maps a wallet address to a role and permission set. Lookups
// are exact and case-sensitive, and must be cheap: resolution happens on
// every authentication and, on gated surfaces, on every challenge request.
type RoleResolver interface {
	// Resolve returns the allow-list entry for the wallet, or the default
	// entry (RoleOperator, no permissions) if the wallet is absent or
	// inactive.
	Resolve(address string) core.AdminEntry

	// IsAdmin reports whether the wallet resolves to an administrative role.
	IsAdmin(address string) bool
}
