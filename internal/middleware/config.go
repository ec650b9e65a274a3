package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/ctxkeys"
)

// Config puts the sanitized configuration in the request context.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), cfg.Sanitized())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS allows the configured browser origins to call the API with credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", csrfHeader}),
		handlers.ExposedHeaders([]string{"Content-Length", "Content-Disposition", csrfHeader}),
		handlers.AllowCredentials(),
	)
}
