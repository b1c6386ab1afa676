package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/repository"
	"workin/internal/service"
)

// CompanyHandler mantiene dependencias para los endpoints de empresas.
type CompanyHandler struct {
	logger    *zap.Logger
	dev       bool
	companies repository.CompanyRepository
}

func NewCompanyHandler(logger *zap.Logger, dev bool, companies repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{
		logger:    logger,
		dev:       dev,
		companies: companies,
	}
}

// ListCompanies maneja GET /companies.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not list companies", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// GetCompany maneja GET /companies/:id. Incluye los empleos de la empresa.
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid company id"))
		return
	}

	company, err := h.companies.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("company not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not load company", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// CreateCompany maneja POST /companies. Crear una empresa asigna al usuario
// el rol de empresa dentro de la misma transacción (transición irreversible).
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	exists, err := h.companies.NameExists(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not check company name", err))
		return
	}
	if exists {
		respondError(c, h.logger, h.dev, apperror.Conflict("a company with this name already exists"))
		return
	}

	company, err := h.companies.CreateWithOwner(c.Request.Context(), req.Name, user.ID)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not create company", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "company created",
		"company": company,
	})
}

// UpdateCompany maneja PUT /companies/:id (empresa dueña o admin).
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid company id"))
		return
	}
	if !service.IsOwnerOrAdmin(user, id) {
		respondError(c, h.logger, h.dev, apperror.Forbidden("you do not have permission to modify this company"))
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	company, err := h.companies.UpdateName(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("company not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not update company", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "company updated",
		"company": company,
	})
}
