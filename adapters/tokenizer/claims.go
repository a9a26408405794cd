package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard JWT claims with the resolved wallet
// identity. The wallet address travels in the subject claim.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	UserID      string   `json:"uid,omitempty"`
}
