package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterHandler struct {
	db              *gorm.DB
	registerService services.RegisterService
	tokenService    *services.TokenService
	cookies         CookieSettings
}

func NewRegisterHandler(db *gorm.DB, registerService services.RegisterService, tokenService *services.TokenService, cookies CookieSettings) *RegisterHandler {
	return &RegisterHandler{db: db, registerService: registerService, tokenService: tokenService, cookies: cookies}
}

// Signup registers a user and signs them in immediately by setting the
// session cookie. The response never includes the password digest.
func (h *RegisterHandler) Signup(c *gin.Context) {
	var req services.RegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "All fields are required",
			"details": err.Error(),
		})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.registerService.RegisterUser(h.db, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "duplicate_email",
				"message": "Email is already in use",
			})
		case errors.Is(err, services.ErrDuplicateUsername):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "duplicate_username",
				"message": "Username is already in use",
			})
		case errors.Is(err, models.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_email",
				"message": "Email address is not valid",
			})
		case errors.Is(err, models.ErrUsernameTooShort):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_username",
				"message": "Username must be at least 3 characters long",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"message": "Failed to create user",
			})
		}
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

	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(h.cookies.Name, token, h.cookies.MaxAge, "/", "", h.cookies.Secure, true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user": UserResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		},
	})
}
