package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/repository"
	"workin/internal/service"
)

// ProfileHandler mantiene dependencias para los endpoints de perfil.
type ProfileHandler struct {
	logger      *zap.Logger
	dev         bool
	users       repository.UserRepository
	passwords   *service.PasswordService
	emailChange *service.EmailChangeService
}

func NewProfileHandler(logger *zap.Logger, dev bool, users repository.UserRepository, passwords *service.PasswordService, emailChange *service.EmailChangeService) *ProfileHandler {
	return &ProfileHandler{
		logger:      logger,
		dev:         dev,
		users:       users,
		passwords:   passwords,
		emailChange: emailChange,
	}
}

// GetProfile maneja GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	disabilities, err := h.users.ListDisabilities(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not load disabilities", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"disabilities": disabilities,
	})
}

// UpdateProfile maneja PUT /profile. Solo nombre y sexo son mutables acá.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		Name *string `json:"name"`
		Sex  *string `json:"sex"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, req.Name, req.Sex)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not update profile", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated",
		"user":    updated,
	})
}

// RequestEmailChange maneja POST /profile/change-email.
func (h *ProfileHandler) RequestEmailChange(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		NewEmail string `json:"new_email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	result, err := h.emailChange.RequestChange(c.Request.Context(), user, req.Password, req.NewEmail)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	if !result.EmailSent {
		c.JSON(http.StatusOK, gin.H{
			"message":      "request processed, but the confirmation email could not be sent",
			"change_token": result.ChangeToken,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "a confirmation link has been sent to your new email"})
}

// ConfirmEmailChange maneja GET /profile/confirm-email/:token. El token es la
// credencial, no requiere sesión.
func (h *ProfileHandler) ConfirmEmailChange(c *gin.Context) {
	user, err := h.emailChange.ConfirmChange(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "email updated successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// ChangePassword maneja POST /profile/change-password.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	if err := h.passwords.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated successfully"})
}
