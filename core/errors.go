package core

import "errors"

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExpired  = errors.New("challenge has expired")
	ErrChallengeMismatch = errors.New("challenge nonce mismatch")
	ErrChallengeConsumed = errors.New("challenge already consumed")

	ErrInvalidSignature = errors.New("invalid signature")

	ErrTokenMalformed    = errors.New("malformed token")
	ErrTokenBadSignature = errors.New("token signature verification failed")
	ErrTokenExpired      = errors.New("token has expired")

	ErrForbidden        = errors.New("wallet is not an allow-listed administrator")
	ErrUnauthorized     = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")
)
