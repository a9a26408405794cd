// Package allowlist implements the RoleResolver port over an administrable
// allow-list of wallet addresses.
package allowlist

import (
	"sync/atomic"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/ports"
)

// snapshot is an immutable view of the active allow-list. Reload publishes a
// whole new snapshot, so concurrent resolutions never observe a
// partially-updated list.
type snapshot struct {
	entries map[string]core.AdminEntry
}

// Resolver resolves wallet addresses against the current allow-list
// snapshot. Lookups are exact and case-sensitive.
type Resolver struct {
	current atomic.Pointer[snapshot]
}

// NewResolver creates a resolver seeded with the given entries.
func NewResolver(entries []core.AdminEntry) *Resolver {
	r := &Resolver{}
	r.Reload(entries)
	return r
}

// Reload atomically replaces the allow-list. Inactive entries are dropped at
// snapshot build time, so resolution treats them as absent.
func (r *Resolver) Reload(entries []core.AdminEntry) {
	next := &snapshot{entries: make(map[string]core.AdminEntry, len(entries))}
	for _, e := range entries {
		if !e.Active {
			continue
		}
		if e.Permissions == nil {
			e.Permissions = core.DefaultPermissions(e.Role)
		}
		next.entries[e.Address] = e
	}
	r.current.Store(next)
}

// Resolve returns the entry for the wallet, or the operator default when the
// wallet is absent from the active list.
func (r *Resolver) Resolve(address string) core.AdminEntry {
	if e, ok := r.current.Load().entries[address]; ok {
		// Hand out a copy of the permission slice: entries flow into token
		// claims, and a caller mutating its entry must not reach through to
		// the shared snapshot.
		e.Permissions = append([]core.Permission(nil), e.Permissions...)
		return e
	}
	return core.AdminEntry{
		Address: address,
		Role:    core.RoleOperator,
		Active:  true,
	}
}

// IsAdmin reports whether the wallet resolves to an administrative role.
func (r *Resolver) IsAdmin(address string) bool {
	return r.Resolve(address).Role.IsAdmin()
}

var _ ports.RoleResolver = (*Resolver)(nil)
