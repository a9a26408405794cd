package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainregistry/warden/core"
)

func newTokenizer(t *testing.T, ttl time.Duration) (*JWTTokenizer, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return NewJWTTokenizer(key, ttl), key
}

func testClaims() *core.Claims {
	return &core.Claims{
		Address: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		UserID:  "user-42",
		Role:    core.RoleSuperAdmin,
		Permissions: []core.Permission{
			core.PermApprove, core.PermReject, core.PermReview,
			core.PermManageUsers, core.PermViewStats,
		},
	}
}

func TestMintValidateRoundTrip(t *testing.T) {
	tok, _ := newTokenizer(t, time.Hour)

	claims := testClaims()
	token, err := tok.Mint(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Mint fills in ID and timestamps.
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))

	got, err := tok.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, claims.ID, got.ID)
	assert.Equal(t, claims.Address, got.Address)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.Role, got.Role)
	assert.Equal(t, claims.Permissions, got.Permissions)
	assert.WithinDuration(t, claims.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestMintWithoutUserID(t *testing.T) {
	tok, _ := newTokenizer(t, time.Hour)

	claims := &core.Claims{
		Address: "0xabc",
		Role:    core.RoleOperator,
	}
	token, err := tok.Mint(claims)
	require.NoError(t, err)

	got, err := tok.Validate(token)
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
	assert.Empty(t, got.Permissions)
	assert.Equal(t, core.RoleOperator, got.Role)
}

func TestValidateMalformed(t *testing.T) {
	tok, _ := newTokenizer(t, time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tok.Validate(token)
		assert.ErrorIs(t, err, core.ErrTokenMalformed, "token %q", token)
	}
}

func TestValidateTamperedSignature(t *testing.T) {
	tok, _ := newTokenizer(t, time.Hour)

	token, err := tok.Mint(testClaims())
	require.NoError(t, err)

	// Flip an interior character of the signature segment to another valid
	// base64url character. Interior characters carry six signature bits
	// each, so the decoded bytes always change and the failure is the
	// integrity check, not decoding. The final character is unsuitable: its
	// trailing padding bits are ignored by a non-strict decoder.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	flipped := parts[0] + "." + parts[1] + "." + string(sig)
	require.NotEqual(t, token, flipped)

	_, err = tok.Validate(flipped)
	assert.ErrorIs(t, err, core.ErrTokenBadSignature)
}

func TestValidateWrongKey(t *testing.T) {
	tok, _ := newTokenizer(t, time.Hour)
	other, _ := newTokenizer(t, time.Hour)

	token, err := other.Mint(testClaims())
	require.NoError(t, err)

	_, err = tok.Validate(token)
	assert.ErrorIs(t, err, core.ErrTokenBadSignature)
}

func TestValidateExpired(t *testing.T) {
	tok, key := newTokenizer(t, time.Hour)

	// Expired past the skew leeway.
	expired := jwt.NewWithClaims(jwt.SigningMethodES256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "0xabc",
			ID:        "jti-1",
			Audience:  jwt.ClaimStrings{AudienceAccess},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Role: string(core.RoleAdmin),
	})
	token, err := expired.SignedString(key)
	require.NoError(t, err)

	_, err = tok.Validate(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestValidateWrongAudience(t *testing.T) {
	tok, key := newTokenizer(t, time.Hour)

	foreign := jwt.NewWithClaims(jwt.SigningMethodES256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "0xabc",
			Audience:  jwt.ClaimStrings{"some-other-service"},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString(key)
	require.NoError(t, err)

	_, err = tok.Validate(token)
	assert.ErrorIs(t, err, core.ErrTokenMalformed)
}
