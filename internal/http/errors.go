package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workin/internal/apperror"
)

// respondError es el traductor de frontera: mapea errores operacionales a su
// código HTTP y mensaje seguro, y colapsa cualquier otra falla en un 500
// genérico sin filtrar detalle interno. En modo desarrollo se incluye la
// causa cruda.
func respondError(c *gin.Context, logger *zap.Logger, dev bool, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Operational() {
		body := gin.H{
			"status":  statusWord(appErr.HTTPStatus()),
			"message": appErr.Message,
		}
		if dev && appErr.Err != nil {
			body["cause"] = appErr.Err.Error()
		}
		c.JSON(appErr.HTTPStatus(), body)
		return
	}

	logger.Error("unexpected error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	body := gin.H{
		"status":  "error",
		"message": "something went wrong",
	}
	if dev {
		body["cause"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func statusWord(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}
