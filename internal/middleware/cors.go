package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. A "*" entry or an empty list allows
// any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			config.AllowAllOrigins = true
			config.AllowCredentials = false
			return cors.New(config)
		}
	}
	config.AllowOrigins = allowedOrigins
	return cors.New(config)
}
