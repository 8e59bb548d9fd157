package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jordanschwab/petwebsite/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// verifyTimeout bounds the call that fetches Google's signing keys. A
// timeout is a verification failure, never a pass.
const verifyTimeout = 10 * time.Second

var (
	ErrInvalidFormat      = errors.New("google: token is not a well-formed JWT")
	ErrSignatureInvalid   = errors.New("google: token signature invalid")
	ErrExpired            = errors.New("google: token expired")
	ErrNotYetValid        = errors.New("google: token not yet valid")
	ErrEmailUnverified    = errors.New("google: email missing or not verified")
	ErrVerificationFailed = errors.New("google: token verification failed")
)

// Profile is the canonical identity extracted from a verified Google ID
// token. Never produced unless the provider marked the email verified.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
}

// Verifier validates Google ID tokens against the configured OAuth client.
// Construct once at startup; safe for concurrent use.
type Verifier struct {
	clientID  string
	validator *idtoken.Validator
	oauth     *oauth2.Config
	log       *zap.Logger
}

func NewVerifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Verifier, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, errors.New("google oauth client credentials not configured")
	}

	validator, err := idtoken.NewValidator(ctx,
		option.WithHTTPClient(&http.Client{Timeout: verifyTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("init idtoken validator: %w", err)
	}

	return &Verifier{
		clientID:  cfg.GoogleClientID,
		validator: validator,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		log: log.Named("google"),
	}, nil
}

// Verify checks the ID token's signature, issuer, audience and validity
// window, then extracts the user profile. The email must be present and
// provider-verified.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Profile, error) {
	if _, err := decodeSegments(idToken); err != nil {
		return nil, ErrInvalidFormat
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		classified := classifyValidationError(err)
		v.log.Warn("id token rejected", zap.Error(err))
		return nil, classified
	}

	profile := profileFromClaims(payload.Subject, payload.Claims)
	if profile.Email == "" || !profile.EmailVerified {
		v.log.Warn("id token email missing or unverified", zap.String("sub", profile.Subject))
		return nil, ErrEmailUnverified
	}

	v.log.Info("google token verified", zap.String("sub", profile.Subject))
	return profile, nil
}

// Decode extracts the token's claims WITHOUT any signature check. Debugging
// only; never authorize anything with its output.
func (v *Verifier) Decode(idToken string) (map[string]interface{}, error) {
	return decodeSegments(idToken)
}

// ExchangeCode trades an OAuth authorization code for the raw ID token in
// Google's token response. Server-side callback flow; the returned string
// still has to pass Verify before anyone is logged in.
func (v *Verifier) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is required")
	}
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	tok, err := v.oauth.Exchange(ctx, code)
	if err != nil {
		v.log.Error("authorization code exchange failed", zap.Error(err))
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", errors.New("token response missing id_token")
	}
	return rawIDToken, nil
}

func decodeSegments(idToken string) (map[string]interface{}, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, errors.New("expected three dot-separated segments")
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload segment: %w", err)
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return claims, nil
}

// classifyValidationError maps the idtoken package's errors onto the
// verifier's taxonomy. The package reports failures as formatted strings, so
// classification matches on their stable fragments; anything unrecognized
// (including key-fetch timeouts) is a VerificationFailed.
func classifyValidationError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired"):
		return ErrExpired
	case strings.Contains(msg, "signature"):
		return ErrSignatureInvalid
	case strings.Contains(msg, "used too early"), strings.Contains(msg, "not valid yet"):
		return ErrNotYetValid
	case strings.Contains(msg, "malformed"), strings.Contains(msg, "invalid token"):
		return ErrInvalidFormat
	default:
		return ErrVerificationFailed
	}
}

func profileFromClaims(subject string, claims map[string]interface{}) *Profile {
	p := &Profile{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	// Google's tokeninfo endpoint historically returned email_verified as
	// the string "true"; the JWT claim is a real bool. Accept both.
	switch verified := claims["email_verified"].(type) {
	case bool:
		p.EmailVerified = verified
	case string:
		p.EmailVerified = verified == "true"
	}
	if name, ok := claims["name"].(string); ok {
		p.Name = name
	}
	if picture, ok := claims["picture"].(string); ok {
		p.Picture = picture
	}
	return p
}
