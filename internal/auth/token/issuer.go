package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrExpired          = errors.New("token: expired")
	ErrNotYetValid      = errors.New("token: not yet valid")
	ErrSignatureInvalid = errors.New("token: signature invalid")
	ErrMalformed        = errors.New("token: malformed")
)

// Payload is what both access and refresh tokens carry. Refresh tokens
// never embed an email claim.
type Payload struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies locally-issued bearer tokens with a single
// symmetric secret and HS256 only. Verification is a pure function of the
// token, the secret and the clock; no external state.
type Issuer struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewIssuer(secret string, accessExpiry, refreshExpiry time.Duration) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (i *Issuer) IssueAccess(userID, email string) (string, error) {
	return i.sign(userID, email, i.accessExpiry)
}

// IssueRefresh signs a refresh token. No email claim; a jti keeps two
// tokens minted within the same second distinct.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return i.sign(userID, "", i.refreshExpiry)
}

// RefreshExpiry reports the lifetime refresh tokens are issued with, so the
// ledger record and the cookie can share it.
func (i *Issuer) RefreshExpiry() time.Duration {
	return i.refreshExpiry
}

func (i *Issuer) sign(userID, email string, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window and returns the embedded
// payload. Only HS256 is accepted; any other signing method fails the same
// way a bad signature does. A token inspected exactly at its expiry instant
// counts as expired.
func (i *Issuer) Verify(tokenString string) (*Payload, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, mapJWTError(err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if c.UserID == "" || c.ExpiresAt == nil || c.IssuedAt == nil {
		return nil, ErrMalformed
	}
	if !i.now().Before(c.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	return &Payload{
		UserID:    c.UserID,
		Email:     c.Email,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable), errors.Is(err, ErrSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrMalformed
	}
}
