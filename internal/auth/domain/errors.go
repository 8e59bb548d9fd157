package domain

import "errors"

// Error taxonomy surfaced by the auth usecase. Handlers map these onto HTTP
// statuses and stable response codes; nothing below this set reaches a
// client.
var (
	// ErrAuthenticationFailed covers every way a Google identity assertion
	// can fail verification. Deliberately opaque so responses do not reveal
	// which sub-check rejected the token.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidRefresh covers a refresh token that is absent, malformed,
	// unknown, revoked, or expired. The five cases are indistinguishable to
	// the caller.
	ErrInvalidRefresh = errors.New("invalid refresh token")

	// ErrUserNotFound means the token checked out but the account is gone.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden means the caller is authenticated but does not own the
	// resource. Distinct from a missing credential.
	ErrForbidden = errors.New("forbidden")

	// ErrPersistence wraps storage failures. The only class a caller may
	// retry; login and refresh are idempotent at the call level.
	ErrPersistence = errors.New("persistence error")
)
