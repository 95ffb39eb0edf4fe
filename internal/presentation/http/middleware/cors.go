package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/config"
)

// Tills always send these, so they stay allowed whatever CORS_ALLOWED_HEADERS says
var requiredCORSHeaders = []string{"Authorization", "Content-Type", "Idempotency-Key"}

// CORSMiddleware applies the configured cross-origin policy
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     withHeaders(cfg.AllowedHeaders, requiredCORSHeaders...),
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	// No configured origins: only same-origin requests get through
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(corsConfig)
}

func withHeaders(headers []string, required ...string) []string {
	out := append([]string(nil), headers...)
	for _, r := range required {
		found := false
		for _, h := range out {
			if strings.EqualFold(h, r) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, r)
		}
	}
	return out
}
