package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	authdto "github.com/jordanschwab/petwebsite/internal/auth/dto"
	"github.com/jordanschwab/petwebsite/internal/auth/google"
	"github.com/jordanschwab/petwebsite/internal/auth/repository"
	"github.com/jordanschwab/petwebsite/internal/auth/token"

	"go.uber.org/zap"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	verifier  IdentityVerifier
	issuer    *token.Issuer
	log       *zap.Logger
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	verifier IdentityVerifier,
	issuer *token.Issuer,
	log *zap.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		verifier:  verifier,
		issuer:    issuer,
		log:       log.Named("auth"),
	}
}

func (u *authUsecase) GoogleLogin(ctx context.Context, idToken string) (*authdto.AuthResult, error) {
	profile, err := u.verifier.Verify(ctx, idToken)
	if err != nil {
		u.log.Warn("google login rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", authdomain.ErrAuthenticationFailed, err)
	}

	user, err := u.resolveUser(profile)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := u.issuePair(user)
	if err != nil {
		return nil, err
	}

	u.log.Info("user logged in", zap.String("user_id", user.ID))
	return &authdto.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *authUsecase) GoogleCodeLogin(ctx context.Context, code string) (*authdto.AuthResult, error) {
	idToken, err := u.verifier.ExchangeCode(ctx, code)
	if err != nil {
		u.log.Warn("authorization code exchange rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", authdomain.ErrAuthenticationFailed, err)
	}
	return u.GoogleLogin(ctx, idToken)
}

// resolveUser finds the account for a verified profile, by Google subject
// first and verified email as a fallback for accounts that predate the
// subject binding. The provider is authoritative for display name and
// picture, so a match refreshes them. No match creates the account.
func (u *authUsecase) resolveUser(profile *google.Profile) (*authdomain.User, error) {
	user, err := u.userRepo.FindByGoogleID(profile.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = u.userRepo.FindByEmail(profile.Email)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		user = &authdomain.User{
			GoogleID:          &profile.Subject,
			Email:             profile.Email,
			DisplayName:       profile.Name,
			ProfilePictureURL: profile.Picture,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
		u.log.Info("created new user", zap.String("user_id", user.ID))
		return user, nil
	}

	user.GoogleID = &profile.Subject
	user.Email = profile.Email
	if profile.Name != "" {
		user.DisplayName = profile.Name
	}
	if profile.Picture != "" {
		user.ProfilePictureURL = profile.Picture
	}
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*authdto.RefreshResult, error) {
	if _, err := u.issuer.Verify(refreshToken); err != nil {
		return nil, fmt.Errorf("%w: %v", authdomain.ErrInvalidRefresh, err)
	}

	record, err := u.tokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	// Not found, revoked and expired are deliberately indistinguishable to
	// the caller. A revoked or expired hit is worth a warning though: the
	// legitimate client already rotated past this value, so someone may be
	// replaying a stolen token.
	if record == nil {
		return nil, authdomain.ErrInvalidRefresh
	}
	if record.Revoked || !time.Now().Before(record.ExpiresAt) {
		u.log.Warn("dead refresh token presented",
			zap.String("user_id", record.UserID),
			zap.Bool("revoked", record.Revoked))
		return nil, authdomain.ErrInvalidRefresh
	}

	user, err := u.userRepo.FindByID(record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	accessToken, err := u.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	newRefreshToken, err := u.issuer.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	// Rotation point. Revocation of the old record and insertion of the new
	// one commit together: concurrent refresh calls carrying the same token
	// value are arbitrated so exactly one proceeds, and a storage failure
	// leaves the presented token live for a retry.
	replacement := &authdomain.RefreshToken{
		Token:     newRefreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.issuer.RefreshExpiry()),
	}
	consumed, err := u.tokenRepo.Rotate(record.ID, replacement)
	if err != nil {
		return nil, err
	}
	if !consumed {
		u.log.Warn("lost refresh rotation race", zap.String("user_id", user.ID))
		return nil, authdomain.ErrInvalidRefresh
	}

	return &authdto.RefreshResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	record, err := u.tokenRepo.FindByToken(refreshToken)
	if err != nil || record == nil {
		return nil
	}
	if err := u.tokenRepo.Revoke(record.ID); err != nil {
		// Logout is best effort; the cookie is cleared regardless and the
		// record dies at natural expiry.
		u.log.Warn("failed to revoke refresh token on logout", zap.Error(err))
	}
	return nil
}

func (u *authUsecase) GetUser(ctx context.Context, id string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	return user, nil
}

func (u *authUsecase) issuePair(user *authdomain.User) (accessToken, refreshToken string, err error) {
	accessToken, err = u.issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err = u.issuer.IssueRefresh(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}

	record := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.issuer.RefreshExpiry()),
	}
	if err = u.tokenRepo.Save(record); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
