package middleware

import (
	"net/http"
	"strings"

	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/metrics"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

// AuthMiddleware resolves the session from the Authorization header or the
// auth cookie and puts the user in the context. Requests without a valid
// session continue anonymously.
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, via := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				if via == ctxkeys.AuthViaCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(claims.UserID)
			if err != nil {
				if via == ctxkeys.AuthViaCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			// Never carry the hash past this point.
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithAuthVia(ctx, via)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return strings.TrimSpace(token), ctxkeys.AuthViaHeader
	}

	cookie, err := r.Cookie(service.AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, ctxkeys.AuthViaCookie
	}

	return "", ""
}

// RequireAuth answers 401 unless the request carries a valid session.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			metrics.AuthRejections.WithLabelValues("unauthenticated").Inc()
			render.Message(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin answers 401 for anonymous requests and 403 for non-admins.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.User(r.Context()).IsAdmin() {
			metrics.AuthRejections.WithLabelValues("not_admin").Inc()
			render.Message(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
