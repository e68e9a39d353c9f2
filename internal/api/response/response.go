// Package response maps service outcomes onto HTTP status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/citelens/internal/domain"
)

// StatusFor returns the HTTP status for a Result kind.
func StatusFor(kind domain.ResultKind) int {
	switch kind {
	case domain.KindNone:
		return http.StatusOK
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindConfig:
		return http.StatusServiceUnavailable
	case domain.KindParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// Result writes a service Result as JSON with the matching status.
func Result[T any](c *gin.Context, r domain.Result[T]) {
	status := http.StatusOK
	if !r.IsSuccess {
		status = StatusFor(r.Kind)
	}
	c.JSON(status, r)
}

// Error writes an error response for a plain Go error.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// BadRequest writes a 400 with the binding error.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
