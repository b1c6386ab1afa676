package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de cuenta y sesión.
type AuthHandler struct {
	logger    *zap.Logger
	dev       bool
	accounts  *service.AccountService
	auth      *service.AuthService
	passwords *service.PasswordService
}

func NewAuthHandler(logger *zap.Logger, dev bool, accounts *service.AccountService, auth *service.AuthService, passwords *service.PasswordService) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		dev:       dev,
		accounts:  accounts,
		auth:      auth,
		passwords: passwords,
	}
}

// Register maneja POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Sex      string `json:"sex"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Sex:      req.Sex,
	})
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"status": "fail", "message": "too many requests"})
			return
		}
		respondError(c, h.logger, h.dev, err)
		return
	}

	if !result.EmailSent {
		// Modo degradado: el token viaja en la respuesta como canal de respaldo.
		c.JSON(http.StatusCreated, gin.H{
			"message":            "user registered, but the verification email could not be sent",
			"user":               result.User,
			"verification_token": result.VerificationToken,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered, a verification email has been sent",
		"user":    result.User,
	})
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"company_id": user.CompanyID,
		},
	})
}

// Verify maneja GET /verify/:token.
func (h *AuthHandler) Verify(c *gin.Context) {
	if _, err := h.accounts.Verify(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account verified, you can now log in"})
}

// RequestPasswordReset maneja POST /password-reset-request.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	result, err := h.passwords.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"status": "fail", "message": "too many requests"})
			return
		}
		respondError(c, h.logger, h.dev, err)
		return
	}

	if !result.EmailSent {
		c.JSON(http.StatusOK, gin.H{
			"message":     "request processed, but the reset email could not be sent",
			"reset_token": result.ResetToken,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "a reset link has been sent to your email"})
}

// ResetPassword maneja POST /password-reset/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	if _, err := h.passwords.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
