package middleware

import (
	"net/http"
	"runtime/debug"

	"annotate-web/internal/platform/logger"
)

// Recover atrapa panics de los handlers, loguea el stack y responde con
// fallback (página "algo salió mal, recargá").
func Recover(fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
					"panic": rec,
					"stack": string(debug.Stack()),
				})
				if fallback == nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				fallback.ServeHTTP(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
