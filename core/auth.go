package core

import (
	"fmt"
	"time"
)

// Challenge is a single-use authentication challenge bound to one wallet.
type Challenge struct {
	ID        string    // Unique identifier for the challenge
	Address   string    // Wallet address the challenge was issued to
	Nonce     string    // Random nonce to be signed
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge expires
	Consumed  bool      // Set exactly once on successful redemption
}

// IsExpiredAt reports whether the challenge has passed its expiry at the
// given moment.
func (c Challenge) IsExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// SigningPayload is the exact byte string a wallet must sign to redeem a
// challenge. It binds both the wallet address and the nonce, so a signature
// produced for one wallet's challenge cannot be replayed under another
// address.
func SigningPayload(address, nonce string) []byte {
	return []byte(fmt.Sprintf("warden authentication\naddress: %s\nnonce: %s", address, nonce))
}

// AdminEntry is one row of the administrator allow-list.
type AdminEntry struct {
	Address     string
	DisplayName string
	Role        Role
	Permissions []Permission
	Active      bool
}

// Claims is the payload of an issued access token. Claims are authoritative
// for the token's lifetime; a role change takes effect only on the next mint.
type Claims struct {
	ID          string // Token ID (JTI)
	Address     string // Wallet address
	UserID      string // Optional stable user ID from the user directory
	Role        Role
	Permissions []Permission
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// HasPermission reports whether the claims carry the given permission tag.
func (c *Claims) HasPermission(p Permission) bool {
	for _, have := range c.Permissions {
		if have == p {
			return true
		}
	}
	return false
}
