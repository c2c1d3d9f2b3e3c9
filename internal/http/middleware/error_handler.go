package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки, добавленные через c.Error, централизованно.
// Внутренние ошибки маскируются, ошибки приложения отдаются с их статусом.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.StatusOf(err)

		entry := logger.Entry("http").WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		c.JSON(status, gin.H{"error": apperror.MessageOf(err)})
	}
}
