package middleware

import (
	"log/slog"
	"slices"

	"reservation-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always allows the checkout session header, since browser
// clients cannot lock or book without it.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	headers := cfg.AllowHeaders
	if !slices.Contains(headers, SessionHeader) {
		headers = append(slices.Clone(headers), SessionHeader)
	}

	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     headers,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		// gin-contrib/cors rejects wildcard origins combined with credentials
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		slog.Warn("CORS allows all origins; credentials disabled")
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}
