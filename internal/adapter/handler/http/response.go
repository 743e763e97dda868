package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

type errorResponse struct {
	Success bool                `json:"success" example:"false"`
	Message string              `json:"message" example:"Error"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

type successResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Success message"`
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{
		Success: false,
		Message: message,
	})
}

func newValidationErrorResponse(c *gin.Context, fields []domain.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func newSuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// handleError writes the envelope for err. Internal errors never leak
// their text.
func handleError(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		var vErr *domain.ValidationError
		errors.As(err, &vErr)
		newValidationErrorResponse(c, vErr.Fields)
	case domain.KindDuplicate:
		if errors.Is(err, domain.ErrDuplicateUsername) {
			newErrorResponse(c, http.StatusConflict, "Username already taken")
			return
		}
		newErrorResponse(c, http.StatusConflict, "Email already registered")
	case domain.KindUnauthenticated:
		if errors.Is(err, domain.ErrInvalidCredentials) {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		newErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
	case domain.KindNotFound:
		newErrorResponse(c, http.StatusNotFound, "User not found")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
