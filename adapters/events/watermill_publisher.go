package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/chainregistry/warden/ports"
)

// LoginTopic carries successful authentication events for audit consumers.
const LoginTopic = "auth.login"

// LoginEvent announces that a wallet exchanged a signed challenge for a
// token.
type LoginEvent struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     LoginTopic,
	}
}

// PublishLogin publishes a login event keyed by the minted token ID.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address, role, tokenID string) error {
	event := LoginEvent{
		Address: address,
		Role:    role,
		TokenID: tokenID,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(tokenID, payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
