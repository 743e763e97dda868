package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationType       = "bearer"
	authorizationPayloadKey = "authorization_payload"
	accessTokenKey          = "access_token"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the verified claims and the raw token on the context.
func AuthMiddleware(token ports.TokenService, logger ports.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader(authorizationHeaderKey)
		if authorizationHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		fields := strings.Fields(authorizationHeader)
		if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationType {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		accessToken := fields[1]
		claims, err := token.Verify(accessToken)
		if err != nil {
			logger.InfoContext(c.Request.Context(), "Rejected bearer token", map[string]interface{}{
				"error": err.Error(),
				"ip":    c.ClientIP(),
				"path":  c.FullPath(),
			})
			handleError(c, err)
			return
		}

		c.Set(authorizationPayloadKey, &claims)
		c.Set(accessTokenKey, accessToken)
		c.Next()
	}
}

// RateLimitMiddleware allows limit requests per client IP per window for
// the given scope. Counters live in the cache; when the cache is
// unavailable requests are let through.
func RateLimitMiddleware(cache ports.CachePort, logger ports.LoggerPort, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		count, err := cache.Incr(key, window)
		if err != nil {
			logger.Warn("Rate limit counter unavailable", map[string]interface{}{
				"error": err.Error(),
				"scope": scope,
			})
			c.Next()
			return
		}

		if count > int64(limit) {
			logger.Warn("Rate limit exceeded", map[string]interface{}{
				"scope": scope,
				"ip":    c.ClientIP(),
				"count": count,
			})
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			newErrorResponse(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}
