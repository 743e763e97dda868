package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	store   ports.AccountRepository
	version string
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version" example:"1.0.0"`
}

func NewHealthHandler(store ports.AccountRepository, version string, logger ports.LoggerPort, metrics ports.MetricsPort) *HealthHandler {
	return &HealthHandler{
		store:   store,
		version: version,
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Health check
// @Description Reports whether the service and its account store are reachable
// @Tags health
// @Produce json
// @Success 200 {object} successResponse{data=HealthResponse} "Healthy"
// @Failure 503 {object} errorResponse "Store unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusServiceUnavailable, "Account store unavailable")
		return
	}

	newSuccessResponse(c, http.StatusOK, "API is running successfully", HealthResponse{
		Status:  "healthy",
		Version: h.version,
	})
}
