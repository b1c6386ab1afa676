package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/repository"
	"workin/internal/service"
)

// JobHandler mantiene dependencias para los endpoints de empleos.
type JobHandler struct {
	logger *zap.Logger
	dev    bool
	jobs   repository.JobRepository
}

func NewJobHandler(logger *zap.Logger, dev bool, jobs repository.JobRepository) *JobHandler {
	return &JobHandler{
		logger: logger,
		dev:    dev,
		jobs:   jobs,
	}
}

// ListJobs maneja GET /jobs con paginación y filtros.
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := repository.JobFilter{
		Title:   c.Query("title"),
		OrderBy: c.DefaultQuery("order_by", "fecha_publicacion"),
		Order:   c.DefaultQuery("order", "DESC"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if raw := c.Query("company_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, h.logger, h.dev, apperror.Validation("invalid company_id filter"))
			return
		}
		filter.CompanyID = &id
	}

	page, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not list jobs", err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetJob maneja GET /jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid job id"))
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("job not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not load job", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CreateJob maneja POST /jobs (rol empresa o admin). Un usuario de empresa
// solo publica bajo su propia empresa.
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	var req struct {
		CompanyID   int64  `json:"company_id"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	companyID := req.CompanyID
	if user.Role == domain.RoleCompany {
		if user.CompanyID == nil {
			respondError(c, h.logger, h.dev, apperror.Forbidden("your account has no company assigned"))
			return
		}
		companyID = *user.CompanyID
	}
	if companyID == 0 {
		respondError(c, h.logger, h.dev, apperror.Validation("company_id is required"))
		return
	}
	if !service.IsOwnerOrAdmin(user, companyID) {
		respondError(c, h.logger, h.dev, apperror.Forbidden("you can only post jobs for your own company"))
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), domain.Job{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not create job", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "job created",
		"job":     job,
	})
}

// UpdateJob maneja PUT /jobs/:id (empresa dueña o admin).
func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid job id"))
		return
	}

	existing, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("job not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not load job", err))
		return
	}
	if !service.IsOwnerOrAdmin(user, existing.CompanyID) {
		respondError(c, h.logger, h.dev, apperror.Forbidden("you do not have permission to modify this job"))
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid request"))
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), domain.Job{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Internal("could not update job", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "job updated",
		"job":     job,
	})
}

// DeleteJob maneja DELETE /jobs/:id (empresa dueña o admin).
func (h *JobHandler) DeleteJob(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, h.logger, h.dev, apperror.Authentication("you are not logged in"))
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, h.logger, h.dev, apperror.Validation("invalid job id"))
		return
	}

	existing, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, h.logger, h.dev, apperror.NotFound("job not found"))
			return
		}
		respondError(c, h.logger, h.dev, apperror.Internal("could not load job", err))
		return
	}
	if !service.IsOwnerOrAdmin(user, existing.CompanyID) {
		respondError(c, h.logger, h.dev, apperror.Forbidden("you do not have permission to delete this job"))
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		respondError(c, h.logger, h.dev, apperror.Internal("could not delete job", err))
		return
	}
	c.Status(http.StatusNoContent)
}
