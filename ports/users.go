package ports

import "context"

// UserDirectory resolves a wallet address to the stable user ID owned by the
// platform's user-record service. The ID is optional in token claims; a
// missing record is not an authentication failure.
type UserDirectory interface {
	UserID(ctx context.Context, address string) (string, error)
}
