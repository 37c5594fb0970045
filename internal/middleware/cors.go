package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vidlens/abcd/internal/config"
)

func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowMethods:  cfg.Server.CORS.AllowedMethods,
		AllowHeaders:  cfg.Server.CORS.AllowedHeaders,
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}

	// Credentials cannot be combined with a wildcard origin.
	if len(corsConfig.AllowOrigins) != 1 || corsConfig.AllowOrigins[0] != "*" {
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}
