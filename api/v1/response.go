package v1

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/apperrors"
)

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError renders any service error. Internal causes are logged, never sent.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsStructuredError(err)
	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	body := gin.H{
		"status":  "error",
		"type":    appErr.Type,
		"message": appErr.Message,
	}
	if len(appErr.Context) > 0 && status < http.StatusInternalServerError {
		body["details"] = appErr.Context
	}
	c.JSON(status, body)
}

// respondBindError reports a request body that failed to parse or validate
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"type":    apperrors.TypeValidation,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
