package middleware

import (
	"net/http"

	"crm-backend/internal/config"

	"github.com/rs/cors"
)

// CORS builds the cross-origin policy from config. An empty origins list
// falls back to allowing everything so a fresh checkout works against any
// local frontend without editing config first.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler
}
