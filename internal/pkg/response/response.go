package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tranquility/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, errType apperror.Kind, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
		"data":    nil,
		"errors":  gin.H{"type": errType},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, errType apperror.Kind, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
		"data":    nil,
		"errors":  gin.H{"type": errType, "fields": details},
	})
}

func ValidationFailed(c *gin.Context, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, apperror.KindValidation, "Invalid request", fields)
}

// Fail writes err using its apperror kind. Anything else is logged and
// reported as a generic server error.
func Fail(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		_ = c.Error(err)
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
		Error(c, http.StatusInternalServerError, apperror.KindInternal, "Internal server error")
		return
	}

	if len(appErr.Detail) > 0 {
		ErrorWithDetails(c, apperror.Status(appErr.Kind), appErr.Kind, appErr.Message, appErr.Detail)
		return
	}
	Error(c, apperror.Status(appErr.Kind), appErr.Kind, appErr.Message)
}
