package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paymentservice/services"
	"paymentservice/utils"
)

// errorResponse отправляет ошибку в формате {"error": "..."}
func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// handleServiceError преобразует ошибку сервиса в HTTP ответ.
// notFoundStatus задает код для ErrNotFound, так как он зависит от ресурса
func handleServiceError(c *gin.Context, err error, notFoundStatus int) {
	metrics := utils.GetMetrics()

	switch {
	case errors.Is(err, services.ErrValidation):
		metrics.RecordError("validation")
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		metrics.RecordError("conflict")
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		metrics.RecordError("not_found")
		errorResponse(c, notFoundStatus, err.Error())
	default:
		metrics.RecordCriticalError("internal")
		utils.LogError("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
