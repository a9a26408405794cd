// Package tokenizer implements the Tokenizer port with ES256-signed JWTs.
// Tokens are self-contained: validity is decided by signature and expiry
// alone, with no server-side session state.
package tokenizer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/ports"
)

const (
	// AudienceAccess tags access tokens so nothing else signed with the same
	// key can pass validation here.
	AudienceAccess = "warden:access"

	// DefaultSessionTTL is the default lifetime of an access token.
	DefaultSessionTTL = 12 * time.Hour

	// expiryLeeway absorbs small clock skew between issuer and validator.
	expiryLeeway = 10 * time.Second
)

// JWTTokenizer mints and validates access tokens with an ECDSA key pair.
// The public half of the signing key validates what the private half minted.
type JWTTokenizer struct {
	signKey    *ecdsa.PrivateKey
	sessionTTL time.Duration
}

// NewJWTTokenizer creates a tokenizer signing with the given key.
// A non-positive ttl selects DefaultSessionTTL.
func NewJWTTokenizer(signKey *ecdsa.PrivateKey, ttl time.Duration) *JWTTokenizer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &JWTTokenizer{signKey: signKey, sessionTTL: ttl}
}

// Mint signs the claims into a token string. The tokenizer assigns the token
// ID and timestamps, writing them back into claims so the caller can report
// the declared expiry.
func (j *JWTTokenizer) Mint(claims *core.Claims) (string, error) {
	now := time.Now()
	claims.ID = uuid.New().String()
	claims.IssuedAt = now
	claims.ExpiresAt = now.Add(j.sessionTTL)

	perms := make([]string, len(claims.Permissions))
	for i, p := range claims.Permissions {
		perms[i] = string(p)
	}

	jwtClaims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Address,
			ID:        claims.ID,
			Audience:  jwt.ClaimStrings{AudienceAccess},
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Role:        string(claims.Role),
		Permissions: perms,
		UserID:      claims.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwtClaims)

	signed, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// Validate parses and checks a token string and returns the embedded claims
// unchanged. No role re-resolution happens here: the claims stay
// authoritative for the token's lifetime.
func (j *JWTTokenizer) Validate(tokenStr string) (*core.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceAccess), jwt.WithLeeway(expiryLeeway))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, core.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, core.ErrTokenBadSignature
		default:
			return nil, core.ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, core.ErrTokenMalformed
	}

	perms := make([]core.Permission, len(claims.Permissions))
	for i, p := range claims.Permissions {
		perms[i] = core.Permission(p)
	}

	out := &core.Claims{
		ID:          claims.ID,
		Address:     claims.Subject,
		UserID:      claims.UserID,
		Role:        core.Role(claims.Role),
		Permissions: perms,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

var _ ports.Tokenizer = (*JWTTokenizer)(nil)
