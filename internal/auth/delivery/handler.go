package delivery

import (
	"errors"
	"net/http"

	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	authdto "github.com/jordanschwab/petwebsite/internal/auth/dto"
	"github.com/jordanschwab/petwebsite/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	refreshCookieName = "refreshToken"
	cookiePath        = "/"
)

type AuthHandler struct {
	authUsecase   usecase.AuthUsecase
	cookieMaxAge  int
	secureCookies bool
	log           *zap.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, cookieMaxAge int, secureCookies bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase:   authUsecase,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
		log:           log.Named("auth_handler"),
	}
}

// GoogleLogin handles POST /api/auth/google. The body carries the Google ID
// token; on success the refresh token becomes an httpOnly cookie and the
// access token rides in the response body.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req authdto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken is required", "code": "INVALID_REQUEST"})
		return
	}

	result, err := h.authUsecase.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}
	h.respondLoggedIn(c, result)
}

// GoogleCallback handles GET /api/auth/google/callback, the landing point of
// the server-side OAuth flow. Google redirects here with an authorization
// code; the code is exchanged for an ID token and the login proceeds exactly
// as if the frontend had posted it.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required", "code": "INVALID_REQUEST"})
		return
	}

	result, err := h.authUsecase.GoogleCodeLogin(c.Request.Context(), code)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}
	h.respondLoggedIn(c, result)
}

// respondLoginError keeps one generic message for every verification failure
// so responses don't reveal which sub-check rejected the credential.
// Persistence failures get a distinct code so clients can tell "try again"
// from "your token is bad".
func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	if errors.Is(err, authdomain.ErrAuthenticationFailed) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed", "code": "AUTH_FAILED"})
		return
	}
	h.log.Error("login failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in", "code": "LOGIN_FAILED"})
}

func (h *AuthHandler) respondLoggedIn(c *gin.Context, result *authdto.AuthResult) {
	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"user": result.User, "accessToken": result.AccessToken},
		"message": "Logged in successfully",
	})
}

// Refresh handles POST /api/auth/refresh. The refresh token is read from
// the cookie, falling back to the request body for clients that can't carry
// cookies. Success rotates the cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.presentedRefreshToken(c)
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "code": "INVALID_REFRESH"})
		return
	}

	result, err := h.authUsecase.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidRefresh), errors.Is(err, authdomain.ErrUserNotFound):
			h.clearRefreshCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "code": "INVALID_REFRESH"})
		default:
			h.log.Error("refresh failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token", "code": "REFRESH_FAILED"})
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"accessToken": result.AccessToken}})
}

// Logout handles POST /api/auth/logout: revokes the presented refresh
// token's ledger record and clears the cookie. Always 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.authUsecase.Logout(c.Request.Context(), h.presentedRefreshToken(c))
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me. Sits behind RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	user, err := h.authUsecase.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "code": "NOT_FOUND"})
			return
		}
		h.log.Error("failed to fetch current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
}

func (h *AuthHandler) presentedRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		return cookie
	}
	var req authdto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, h.cookieMaxAge, cookiePath, "", h.secureCookies, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, cookiePath, "", h.secureCookies, true)
}
