package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sm8ta/auth_microservice/internal/config"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	httpConfig *config.HTTP,
	rateLimit *config.RateLimit,
	tokenService ports.TokenService,
	cache ports.CachePort,
	logger ports.LoggerPort,
	accountHandler *AccountHandler,
	authHandler *AuthHandler,
	healthHandler *HealthHandler,
) (*Router, error) {
	if httpConfig.Env == "prod" || httpConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// CORS
	ginConfig := cors.DefaultConfig()
	if origins := httpConfig.Origins(); len(origins) > 0 {
		ginConfig.AllowOrigins = origins
		ginConfig.AllowCredentials = true
	} else {
		ginConfig.AllowAllOrigins = true
	}
	ginConfig.AddAllowHeaders("Authorization")

	router := gin.New()
	// Rate limits key on ClientIP, which only reads X-Forwarded-For from these peers.
	if err := router.SetTrustedProxies(httpConfig.Proxies()); err != nil {
		return nil, err
	}
	router.Use(gin.Logger(), gin.Recovery(), cors.New(ginConfig))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/health", healthHandler.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/signup",
			RateLimitMiddleware(cache, logger, "signup", rateLimit.Signup, rateLimit.Window),
			accountHandler.SignUp)
		auth.POST("/signin",
			RateLimitMiddleware(cache, logger, "signin", rateLimit.Signin, rateLimit.Window),
			authHandler.SignIn)
	}

	// Routers with auth
	protected := api.Group("")
	protected.Use(AuthMiddleware(tokenService, logger))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/dashboard", authHandler.Dashboard)
	}

	return &Router{
		Engine: router,
	}, nil
}
