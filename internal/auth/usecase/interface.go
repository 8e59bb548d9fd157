package usecase

import (
	"context"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	authdto "github.com/jordanschwab/petwebsite/internal/auth/dto"
	"github.com/jordanschwab/petwebsite/internal/auth/google"
)

// AuthUsecase orchestrates identity verification, token issuance and the
// refresh-token ledger.
type AuthUsecase interface {
	// GoogleLogin verifies a Google ID token, resolves or creates the local
	// account and issues a fresh access/refresh pair.
	GoogleLogin(ctx context.Context, idToken string) (*authdto.AuthResult, error)
	// GoogleCodeLogin completes the server-side OAuth flow: it exchanges an
	// authorization code for an ID token and then logs in with it.
	GoogleCodeLogin(ctx context.Context, code string) (*authdto.AuthResult, error)
	// Refresh rotates a refresh token: the presented token is consumed and
	// can never be used again, and a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*authdto.RefreshResult, error)
	// Logout revokes the presented refresh token's ledger record, when one
	// is presented and known. Never fails the client.
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, id string) (*authdomain.User, error)
}

// IdentityVerifier is the slice of the Google verifier the usecase needs.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Profile, error)
	// ExchangeCode trades an OAuth authorization code for the raw ID token
	// embedded in Google's token response.
	ExchangeCode(ctx context.Context, code string) (string, error)
}
