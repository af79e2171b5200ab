package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db           *gorm.DB
	authService  services.AuthService
	tokenService *services.TokenService
	cookies      CookieSettings
}

// CookieSettings controls the session cookie attributes. SameSite is
// stricter and Secure is on when the service runs in production.
type CookieSettings struct {
	Name     string
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

func CookieSettingsFromConfig(cfg *config.Config) CookieSettings {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = http.SameSiteStrictMode
	}
	return CookieSettings{
		Name:     cfg.Auth.CookieName,
		MaxAge:   int(cfg.Auth.SessionTTL.Seconds()),
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService, tokenService *services.TokenService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{db: db, authService: authService, tokenService: tokenService, cookies: cookies}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(h.cookies.Name, token, maxAge, "/", "", h.cookies.Secure, true)
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.authService.LoginUser(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_credentials",
				"message": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to sign in",
		})
		return
	}

	token, err := h.tokenService.IssueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_generation_failed",
			"message": "Failed to generate session token",
		})
		return
	}

	h.setSessionCookie(c, token, h.cookies.MaxAge)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": UserResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// Logout overwrites the session cookie with an immediately expiring value.
// There is no server-side revocation list; an already-issued token stays
// valid until it expires on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
