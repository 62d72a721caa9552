package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"annotate-web/internal/domain/session"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
)

const authKey ctxKey = "auth"

type SessionOptions struct {
	Store      session.KV
	Base       *httpclient.Client
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session identifica al navegador por cookie, arma su AuthStore y la hidrata
// desde el store durable. Un id inválido o ausente genera sesión nueva.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionID(r, opts.CookieName)
			if sid == "" {
				sid = uuid.NewString()
			}
			setSessionCookie(w, opts, sid)

			store := session.NewAuthStore(opts.Store, sid, opts.Base)
			log := logger.FromContext(r.Context()).With(map[string]any{"session": shortID(sid)})

			if err := store.Hydrate(r.Context()); err != nil {
				// la sesión queda en Loading; el guard responde 503
				log.Warn("session hydrate failed", map[string]any{"error": err})
			}
			if u := store.User(); u != nil {
				log = log.With(map[string]any{"user_id": u.UserID, "role": u.Role.String()})
				// sesión activa: el vencimiento corre desde el último request
				if err := store.Touch(r.Context()); err != nil {
					log.Warn("session touch failed", map[string]any{"error": err})
				}
			}
			unsubscribe := store.Subscribe(authAudit(log, store.User() != nil))
			defer unsubscribe()

			ctx := context.WithValue(r.Context(), authKey, store)
			ctx = logger.WithContext(ctx, log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuth devuelve la AuthStore de la sesión del request.
func GetAuth(ctx context.Context) (*session.AuthStore, bool) {
	s, ok := ctx.Value(authKey).(*session.AuthStore)
	return s, ok && s != nil
}

// WithAuth inyecta una AuthStore (tests y handlers que arman la suya).
func WithAuth(ctx context.Context, s *session.AuthStore) context.Context {
	return context.WithValue(ctx, authKey, s)
}

func sessionID(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func setSessionCookie(w http.ResponseWriter, opts SessionOptions, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}

// authAudit deja constancia de cada login/logout de la sesión.
func authAudit(log logger.Logger, signedIn bool) func(session.State) {
	return func(st session.State) {
		switch {
		case st.Authenticated() && !signedIn:
			log.Info("session signed in", map[string]any{"user_id": st.User.UserID, "role": st.User.Role.String()})
		case !st.Authenticated() && signedIn:
			log.Info("session signed out", nil)
		}
		signedIn = st.Authenticated()
	}
}
