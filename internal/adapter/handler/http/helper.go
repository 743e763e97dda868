package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

func getAuthClaims(ctx *gin.Context) (*domain.TokenClaims, bool) {
	value, exists := ctx.Get(authorizationPayloadKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*domain.TokenClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

func getAccessToken(ctx *gin.Context) (string, bool) {
	token := ctx.GetString(accessTokenKey)
	return token, token != ""
}
