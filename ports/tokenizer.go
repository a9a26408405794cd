package ports

import "github.com/chainregistry/warden/core"

// Tokenizer mints and validates self-contained access tokens. The same key
// material must validate what it minted; validation performs no role
// re-resolution.
type Tokenizer interface {
	// Mint produces a signed token string carrying the claims. The tokenizer
	// fills in the token ID and timestamps.
	Mint(claims *core.Claims) (string, error)

	// Validate parses and checks a token string, returning the embedded
	// claims unchanged. Failures are core.ErrTokenMalformed,
	// core.ErrTokenBadSignature or core.ErrTokenExpired.
	Validate(token string) (*core.Claims, error)
}
