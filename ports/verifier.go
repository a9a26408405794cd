package ports

// SignatureVerifier checks that a signed payload was produced by the holder
// of the wallet's private key. Implementations must be deterministic and
// side-effect-free, and must return false (never panic or error) for
// malformed input.
type SignatureVerifier interface {
	Verify(address string, payload []byte, signature string) bool
}
