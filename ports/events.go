package ports

import "context"

// EventPublisher notifies other components about authentication outcomes.
type EventPublisher interface {
	PublishLogin(ctx context.Context, address, role, tokenID string) error
}
