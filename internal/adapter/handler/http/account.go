package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type AccountHandler struct {
	accountService ports.AccountService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

// AuthResponse is returned by sign up and sign in.
type AuthResponse struct {
	AccessToken string             `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string             `json:"token_type" example:"bearer"`
	ExpiresAt   strfmt.DateTime    `json:"expires_at" swaggertype:"string" example:"2026-01-03T15:04:05.000Z"`
	User        domain.AccountView `json:"user"`
}

func toAuthResponse(res *domain.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: res.Token,
		TokenType:   res.TokenType,
		ExpiresAt:   strfmt.DateTime(res.ExpiresAt),
		User:        res.Account,
	}
}

func NewAccountHandler(
	accountService ports.AccountService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
		metrics:        metrics,
	}
}

// @Summary Sign up
// @Description Creates an account and signs the caller in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterInput true "Account details"
// @Success 201 {object} successResponse{data=AuthResponse} "Account created"
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 409 {object} errorResponse "Email or username taken"
// @Failure 429 {object} errorResponse "Too many requests"
// @Failure 500 {object} errorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *AccountHandler) SignUp(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("Failed JSON parse in sign up", map[string]interface{}{
			"error": err.Error(),
		})
		newValidationErrorResponse(c, bindingFields(err))
		return
	}

	res, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Account created successfully", toAuthResponse(res))
}
