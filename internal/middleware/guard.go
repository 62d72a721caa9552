package middleware

import (
	"net/http"

	"annotate-web/internal/domain/guard"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/domain/session"
)

// RequireRoles aplica guard.Decide a la sesión del request.
// Es UX: el backend vuelve a autorizar cada llamada.
func RequireRoles(allowed roles.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.State{}
			if store, ok := GetAuth(r.Context()); ok {
				st = store.State()
			}

			switch d := guard.Decide(st, allowed); d {
			case guard.Authorized:
				next.ServeHTTP(w, r)
			case guard.Loading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Loading...", http.StatusServiceUnavailable)
			default:
				http.Redirect(w, r, d.Redirect(), http.StatusSeeOther)
			}
		})
	}
}

// RequireRoute usa la tabla de permisos por patrón de ruta.
func RequireRoute(pattern string) func(http.Handler) http.Handler {
	return RequireRoles(roles.ForRoute(pattern))
}

// RedirectIfAuthenticated: /login con sesión activa va al dashboard.
func RedirectIfAuthenticated(to string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store, ok := GetAuth(r.Context()); ok && store.User() != nil {
				http.Redirect(w, r, to, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
