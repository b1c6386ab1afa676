package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/repository"
	"workin/internal/service"
)

const currentUserKey = "current_user"

// AuthRequired valida el bearer token y recarga el usuario desde el store en
// cada solicitud. Al contexto llega el registro fresco, no los claims: así los
// cambios de rol, verificación o la eliminación de la cuenta surten efecto de
// inmediato aunque el token siga siendo criptográficamente válido. Solo se
// aceptan tokens de sesión: los tokens de acción (verificación, reset, cambio
// de correo) viajan por correo y no autentican.
func AuthRequired(logger *zap.Logger, dev bool, tokens *service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(c, logger, dev, apperror.Authentication("you are not logged in, please log in to get access"))
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Verify(token, service.TokenTypeSession)
		if err != nil {
			message := "invalid token, please log in again"
			if errors.Is(err, service.ErrTokenExpired) {
				message = "your token has expired, please log in again"
			}
			respondError(c, logger, dev, apperror.Authentication(message))
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, logger, dev, apperror.Authentication("the user belonging to this token no longer exists"))
			} else {
				respondError(c, logger, dev, apperror.Internal("could not load user", err))
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole restringe la ruta a los roles indicados. Debe encadenarse
// después de AuthRequired.
func RequireRole(logger *zap.Logger, dev bool, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role == "" {
			respondError(c, logger, dev, apperror.Forbidden("user not found or has no role assigned"))
			c.Abort()
			return
		}
		if !service.HasRole(user, roles...) {
			respondError(c, logger, dev, apperror.Forbidden("you do not have permission to perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
