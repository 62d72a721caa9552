package middleware

import (
	"context"
	"net/http"

	"annotate-web/internal/platform/logger"
	"annotate-web/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// TokenClaims:
// - Si la sesión tiene token e inspector != nil => lee claims y los deja en ctx.
// - Token ilegible => el request sigue sin claims (solo se usan para mostrar).
func TokenClaims(inspector auth.TokenInspector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, ok := GetAuth(r.Context())
			if inspector == nil || !ok || store.User() == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := inspector.Inspect(r.Context(), store.Client().HTTP().Token())
			if err != nil {
				logger.FromContext(r.Context()).Debug("token claims unreadable", map[string]any{"error": err})
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}
