package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/valueobject"
)

// ContextStepKey - ключ индекса шага, разобранного StepParam.
const ContextStepKey = "stepIndex"

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.PUT("/employment/:id", UUIDValidator("id"), handler.Update)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " обязателен",
			})
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " должен быть валидным UUID",
			})
			return
		}

		c.Next()
	}
}

// StepIndexer переводит ключ раздела анкеты в индекс.
type StepIndexer interface {
	IndexOf(key valueobject.StepKey) int
}

// StepParam принимает в параметре номер шага или ключ раздела и кладёт индекс в контекст.
// Диапазон номера не проверяется: выход за границы отклоняет навигатор.
func StepParam(paramName string, steps StepIndexer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if idx, err := strconv.Atoi(raw); err == nil {
			c.Set(ContextStepKey, idx)
			c.Next()
			return
		}

		idx := steps.IndexOf(valueobject.StepKey(raw))
		if idx < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "неизвестный шаг " + raw,
			})
			return
		}
		c.Set(ContextStepKey, idx)
		c.Next()
	}
}
