package middleware

import (
	"net"
	"net/http"

	"annotate-web/internal/platform/logger"
	"annotate-web/internal/platform/ratelimit"
)

// Throttle limita por IP (RemoteAddr, ya resuelto por chi RealIP).
// Se monta solo en los POST sensibles: login, registro, canje de códigos.
func Throttle(l ratelimit.Limiter, onLimited http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || l.Allow(clientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			logger.FromContext(r.Context()).Warn("rate limited", map[string]any{"path": r.URL.Path})
			if onLimited != nil {
				onLimited.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many attempts. Please wait a minute and try again.", http.StatusTooManyRequests)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
