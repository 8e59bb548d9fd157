package dto

import authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is what a successful login produces. The refresh token goes
// into an httpOnly cookie; the access token travels in the response body.
type AuthResult struct {
	User         *authdomain.User `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"-"`
}

// RefreshResult is what a successful rotation produces.
type RefreshResult struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}
