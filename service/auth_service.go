// Package service orchestrates the wallet authentication protocol:
// challenge issuance, signed-response verification and token authorization.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/ports"
)

// AuthService is the sole entry point collaborators use. It wires the
// challenge store, signature verifier, role resolver and tokenizer into the
// two-step protocol and the token-validation path.
type AuthService struct {
	challenges ports.ChallengeStore
	verifier   ports.SignatureVerifier
	roles      ports.RoleResolver
	tokenizer  ports.Tokenizer

	users    ports.UserDirectory
	eventPub ports.EventPublisher
	log      *slog.Logger

	// gateChallenges refuses challenges to wallets outside the admin set.
	// Set on backoffice deployments; the public portal leaves it off.
	gateChallenges bool
}

// Option configures optional collaborators of the AuthService.
type Option func(*AuthService)

// WithAdminGate makes RequestChallenge refuse non-allow-listed wallets
// before any challenge is stored.
func WithAdminGate() Option {
	return func(s *AuthService) { s.gateChallenges = true }
}

// WithUserDirectory attaches the collaborator that owns stable user IDs.
func WithUserDirectory(users ports.UserDirectory) Option {
	return func(s *AuthService) { s.users = users }
}

// WithEventPublisher attaches a publisher for login events.
func WithEventPublisher(pub ports.EventPublisher) Option {
	return func(s *AuthService) { s.eventPub = pub }
}

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *AuthService) { s.log = log }
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	challenges ports.ChallengeStore,
	verifier ports.SignatureVerifier,
	roles ports.RoleResolver,
	tokenizer ports.Tokenizer,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		challenges: challenges,
		verifier:   verifier,
		roles:      roles,
		tokenizer:  tokenizer,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestChallenge issues a fresh challenge for the wallet, superseding any
// outstanding one. On gated surfaces, wallets outside the admin set get
// core.ErrForbidden and no challenge is created.
func (s *AuthService) RequestChallenge(ctx context.Context, address string) (*core.Challenge, error) {
	if s.gateChallenges && !s.roles.IsAdmin(address) {
		return nil, core.ErrForbidden
	}

	challenge, err := s.challenges.Issue(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to issue challenge: %w", err)
	}

	return challenge, nil
}

// SubmitResponse redeems a signed challenge for an access token. The
// challenge is consumed first, then the signature checked, so a used or
// superseded nonce can never reach verification and no token is minted on
// any partial failure.
func (s *AuthService) SubmitResponse(ctx context.Context, address, nonce, signature string) (string, *core.Claims, error) {
	if err := s.challenges.Consume(ctx, address, nonce); err != nil {
		return "", nil, err
	}

	if !s.verifier.Verify(address, core.SigningPayload(address, nonce), signature) {
		return "", nil, core.ErrInvalidSignature
	}

	entry := s.roles.Resolve(address)
	claims := &core.Claims{
		Address:     address,
		Role:        entry.Role,
		Permissions: entry.Permissions,
	}

	if s.users != nil {
		userID, err := s.users.UserID(ctx, address)
		if err != nil {
			s.log.WarnContext(ctx, "user directory lookup failed",
				"address", address, "error", err)
		} else {
			claims.UserID = userID
		}
	}

	token, err := s.tokenizer.Mint(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to mint token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, address, string(claims.Role), claims.ID); err != nil {
			// The token is already minted; event delivery is best effort.
			s.log.WarnContext(ctx, "failed to publish login event",
				"address", address, "error", err)
		}
	}

	return token, claims, nil
}

// Authorize validates a bearer token and checks it carries the required
// permission. Validation failures map to core.ErrUnauthorized, a missing
// permission to core.ErrPermissionDenied.
func (s *AuthService) Authorize(ctx context.Context, token string, required core.Permission) (*core.Claims, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if !claims.HasPermission(required) {
		return nil, core.ErrPermissionDenied
	}

	return claims, nil
}

// ValidateToken validates a bearer token and returns its claims. All
// tokenizer failures collapse into core.ErrUnauthorized so callers cannot
// distinguish why a token was rejected.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.Claims, error) {
	claims, err := s.tokenizer.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUnauthorized, err)
	}
	return claims, nil
}

// IsAuthFailure reports whether the error is a challenge or signature
// failure that transports must present as one generic authentication
// failure, per the no-oracle rule.
func IsAuthFailure(err error) bool {
	return errors.Is(err, core.ErrChallengeNotFound) ||
		errors.Is(err, core.ErrChallengeExpired) ||
		errors.Is(err, core.ErrChallengeMismatch) ||
		errors.Is(err, core.ErrChallengeConsumed) ||
		errors.Is(err, core.ErrInvalidSignature)
}
