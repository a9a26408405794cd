package allowlist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chainregistry/warden/core"
)

// fileEntry is the YAML form of one allow-list row.
type fileEntry struct {
	Address     string   `yaml:"wallet"`
	DisplayName string   `yaml:"display_name"`
	Role        string   `yaml:"role"`
	Permissions []string `yaml:"permissions"`
	Active      *bool    `yaml:"active"`
}

type fileDoc struct {
	Admins []fileEntry `yaml:"admins"`
}

// LoadFile reads an allow-list YAML document:
//
//	admins:
//	  - wallet: "0xAbc..."
//	    display_name: "Ops lead"
//	    role: SUPER_ADMIN
//	    permissions: [approve, reject]   # optional, overrides role default
//	    active: true                     # optional, defaults to true
//
// Duplicate active wallet addresses and unknown roles are load errors.
func LoadFile(path string) ([]core.AdminEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allow-list: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates allow-list YAML.
func Parse(raw []byte) ([]core.AdminEntry, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse allow-list: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Admins))
	entries := make([]core.AdminEntry, 0, len(doc.Admins))
	for i, fe := range doc.Admins {
		if fe.Address == "" {
			return nil, fmt.Errorf("allow-list entry %d: missing wallet address", i)
		}

		role := core.Role(fe.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("allow-list entry %q: unknown role %q", fe.Address, fe.Role)
		}

		active := fe.Active == nil || *fe.Active
		if active {
			if _, dup := seen[fe.Address]; dup {
				return nil, fmt.Errorf("allow-list entry %q: duplicate active wallet", fe.Address)
			}
			seen[fe.Address] = struct{}{}
		}

		var perms []core.Permission
		if fe.Permissions != nil {
			perms = make([]core.Permission, len(fe.Permissions))
			for j, p := range fe.Permissions {
				perms[j] = core.Permission(p)
			}
		}

		entries = append(entries, core.AdminEntry{
			Address:     fe.Address,
			DisplayName: fe.DisplayName,
			Role:        role,
			Permissions: perms,
			Active:      active,
		})
	}

	return entries, nil
}
