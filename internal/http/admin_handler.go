package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/repository"
	"workin/internal/service"
)

// AdminHandler mantiene dependencias para los endpoints administrativos.
type AdminHandler struct {
	logger  *zap.Logger
	dev     bool
	users   repository.UserRepository
	invites *service.InviteService
}

func NewAdminHandler(logger *zap.Logger, dev bool, users repository.UserRepository, invites *service.InviteService) *AdminHandler {
	return &AdminHandler{
		logger:  logger,
		dev:     dev,
		users:   users,
		invites: invites,
	}
}

// GenerateInviteCode maneja POST /admin/invite-codes (rol admin).
func (h *AdminHandler) GenerateInviteCode(c *gin.Context) {
	admin, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	code, err := h.invites.GenerateCode(c.Request.Context(), admin)
	if err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "invite code generated",
		"invite_code": code.Code,
		"expires_at":  code.ExpiryDate,
	})
}

// ActivateAdminRole maneja POST /admin/activate. Cualquier usuario autenticado
// con un código vigente puede escalar a admin.
func (h *AdminHandler) ActivateAdminRole(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	if err := h.invites.Activate(c.Request.Context(), user, req.InviteCode); err != nil {
		respondError(c, h.logger, h.dev, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "admin role activated",
		"role":    domain.RoleAdmin,
	})
}

// ListUsers maneja GET /users (rol admin). Solo campos públicos.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not list users", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser maneja GET /users/:id (rol admin).
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("user not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not load user", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
