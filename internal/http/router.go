package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workin/internal/domain"
	"workin/internal/repository"
	"workin/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	dev bool,
	tokens *service.TokenService,
	users repository.UserRepository,
	authH *AuthHandler,
	profileH *ProfileHandler,
	adminH *AdminHandler,
	companyH *CompanyHandler,
	jobH *JobHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	session := AuthRequired(logger, dev, tokens, users)
	adminOnly := RequireRole(logger, dev, domain.RoleAdmin)

	// Cuenta y sesión.
	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)
	r.GET("/verify/:token", authH.Verify)
	r.POST("/password-reset-request", authH.RequestPasswordReset)
	r.POST("/password-reset/:token", authH.ResetPassword)

	// Perfil. La confirmación de cambio de correo no exige sesión: el token es
	// la credencial.
	profile := r.Group("/profile")
	profile.GET("", session, profileH.GetProfile)
	profile.PUT("", session, profileH.UpdateProfile)
	profile.POST("/change-email", session, profileH.RequestEmailChange)
	profile.GET("/confirm-email/:token", profileH.ConfirmEmailChange)
	profile.POST("/change-password", session, profileH.ChangePassword)

	// Administración.
	admin := r.Group("/admin")
	admin.POST("/invite-codes", session, adminOnly, adminH.GenerateInviteCode)
	admin.POST("/activate", session, adminH.ActivateAdminRole)
	r.GET("/users", session, adminOnly, adminH.ListUsers)
	r.GET("/users/:id", session, adminOnly, adminH.GetUser)

	// Marketplace.
	r.GET("/companies", companyH.ListCompanies)
	r.GET("/companies/:id", companyH.GetCompany)
	r.POST("/companies", session, companyH.CreateCompany)
	r.PUT("/companies/:id", session, companyH.UpdateCompany)

	r.GET("/jobs", jobH.ListJobs)
	r.GET("/jobs/:id", jobH.GetJob)
	r.POST("/jobs", session, RequireRole(logger, dev, domain.RoleCompany, domain.RoleAdmin), jobH.CreateJob)
	r.PUT("/jobs/:id", session, jobH.UpdateJob)
	r.DELETE("/jobs/:id", session, jobH.DeleteJob)

	return r
}
