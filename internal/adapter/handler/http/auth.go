package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type SignInRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"ada@example.com"`
	Password   string `json:"password" binding:"required" example:"Secret12"`
}

type UserResponse struct {
	User domain.AccountView `json:"user"`
}

func NewAuthHandler(
	authService ports.AuthService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		metrics:     metrics,
	}
}

// @Summary Sign in
// @Description Signs in with an email or username and a password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} successResponse{data=AuthResponse} "Signed in"
// @Failure 400 {object} errorResponse "Validation failed"
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Failure 429 {object} errorResponse "Too many requests"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("Failed JSON parse in sign in", map[string]interface{}{
			"error": err.Error(),
		})
		newValidationErrorResponse(c, bindingFields(err))
		return
	}

	res, err := h.authService.SignIn(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Login successful", toAuthResponse(res))
}

// @Summary Log out
// @Description Checks the bearer token. Tokens are stateless and stay valid until they expire.
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse "Logged out"
// @Failure 401 {object} errorResponse "Invalid or expired token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	token, ok := getAccessToken(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}

	if claims, ok := getAuthClaims(c); ok {
		h.logger.Info("User logged out", map[string]interface{}{
			"subject":    claims.Subject,
			"expires_at": claims.ExpiresAt,
		})
	}

	newSuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

// @Summary Current user
// @Description Returns the account the bearer token was issued for
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse{data=UserResponse} "Current user"
// @Failure 401 {object} errorResponse "Invalid or expired token"
// @Failure 404 {object} errorResponse "User not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	h.respondWithAccount(c, "User information retrieved successfully")
}

// @Summary Dashboard
// @Description Protected example route
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse{data=UserResponse} "Dashboard data"
// @Failure 401 {object} errorResponse "Invalid or expired token"
// @Failure 404 {object} errorResponse "User not found"
// @Router /dashboard [get]
func (h *AuthHandler) Dashboard(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	h.respondWithAccount(c, "Dashboard data retrieved successfully")
}

func (h *AuthHandler) respondWithAccount(c *gin.Context, message string) {
	token, ok := getAccessToken(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	view, err := h.authService.Me(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, message, UserResponse{User: *view})
}
