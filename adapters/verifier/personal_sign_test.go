package verifier

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainregistry/warden/core"
)

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func sign(t *testing.T, key *ecdsa.PrivateKey, payload []byte) string {
	t.Helper()
	sig, err := crypto.Sign(TextHash(payload), key)
	require.NoError(t, err)
	return hexutil.Encode(sig)
}

func TestVerifyValidSignature(t *testing.T) {
	key, address := newWallet(t)
	payload := core.SigningPayload(address, "nonce-1")

	v := NewPersonalSign()
	assert.True(t, v.Verify(address, payload, sign(t, key, payload)))
}

func TestVerifyWalletStyleRecoveryID(t *testing.T) {
	key, address := newWallet(t)
	payload := core.SigningPayload(address, "nonce-1")

	sig, err := crypto.Sign(TextHash(payload), key)
	require.NoError(t, err)
	// Browser wallets report V as 27/28 rather than 0/1.
	sig[crypto.RecoveryIDOffset] += 27

	v := NewPersonalSign()
	assert.True(t, v.Verify(address, payload, hexutil.Encode(sig)))
}

func TestVerifyRejectsOtherWallet(t *testing.T) {
	keyA, addressA := newWallet(t)
	_, addressB := newWallet(t)

	// A signature valid for wallet A's challenge submitted under wallet B.
	payloadA := core.SigningPayload(addressA, "nonce-1")
	sig := sign(t, keyA, payloadA)

	v := NewPersonalSign()
	assert.False(t, v.Verify(addressB, core.SigningPayload(addressB, "nonce-1"), sig))
	assert.False(t, v.Verify(addressB, payloadA, sig))
}

func TestVerifyRejectsDifferentPayload(t *testing.T) {
	key, address := newWallet(t)
	sig := sign(t, key, core.SigningPayload(address, "nonce-1"))

	v := NewPersonalSign()
	assert.False(t, v.Verify(address, core.SigningPayload(address, "nonce-2"), sig))
}

func TestVerifyMalformedInput(t *testing.T) {
	key, address := newWallet(t)
	payload := core.SigningPayload(address, "nonce-1")
	valid := sign(t, key, payload)

	v := NewPersonalSign()

	tests := []struct {
		name      string
		address   string
		signature string
	}{
		{"empty signature", address, ""},
		{"not hex", address, "0xzz"},
		{"missing prefix", address, valid[2:]},
		{"truncated", address, valid[:64]},
		{"bad address", "not-an-address", valid},
		{"empty address", "", valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, v.Verify(tt.address, payload, tt.signature))
		})
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	key, address := newWallet(t)
	payload := core.SigningPayload(address, "nonce-1")

	sig, err := crypto.Sign(TextHash(payload), key)
	require.NoError(t, err)
	sig[10] ^= 0xff

	v := NewPersonalSign()
	assert.False(t, v.Verify(address, payload, hexutil.Encode(sig)))
}
