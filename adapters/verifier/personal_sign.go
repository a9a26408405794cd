// Package verifier implements signature verification against wallet
// addresses. The production scheme is EIP-191 personal_sign: the verifier
// recovers the signing key from the signature and compares the derived
// address to the claimed one. Nothing is ever accepted on shape alone.
package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainregistry/warden/ports"
)

// PersonalSign verifies EIP-191 personal_sign signatures produced by
// Ethereum wallets over the challenge payload.
type PersonalSign struct{}

// NewPersonalSign creates a personal_sign verifier.
func NewPersonalSign() *PersonalSign {
	return &PersonalSign{}
}

// Verify recovers the signer of the payload and compares it to address.
// Malformed addresses, signatures or encodings yield false, never an error.
func (v *PersonalSign) Verify(address string, payload []byte, signature string) bool {
	if !common.IsHexAddress(address) {
		return false
	}

	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// Wallets emit V as 27/28; go-ethereum recovery expects 0/1.
	recovery := sig[crypto.RecoveryIDOffset]
	if recovery >= 27 {
		recovery -= 27
	}
	if recovery > 1 {
		return false
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	normalized[crypto.RecoveryIDOffset] = recovery

	pub, err := crypto.SigToPub(TextHash(payload), normalized)
	if err != nil {
		return false
	}

	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address)
}

// TextHash computes the EIP-191 digest wallets sign in personal_sign:
// keccak256("\x19Ethereum Signed Message:\n" + len(payload) + payload).
func TextHash(payload []byte) []byte {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(payload), payload)
	return crypto.Keccak256([]byte(msg))
}

var _ ports.SignatureVerifier = (*PersonalSign)(nil)
