package middleware

import "net/http"

// Chain applies middleware so they run in the order given, first outermost.
//
// Example:
//
//	handler := Chain(mux,
//	    RequestLogging,      // runs first
//	    AuthMiddleware(...), // runs second
//	    Monitor,             // runs last, next to the mux
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
