package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"annotate-web/internal/adapters/storage/memory"
	"annotate-web/internal/api"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/domain/session"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/ports/auth"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string, string) (string, error) {
	return "", errors.New("store down")
}
func (brokenKV) Set(context.Context, string, string, string) error { return nil }
func (brokenKV) Delete(context.Context, string, ...string) error { return nil }

func sessionOpts(kv session.KV) SessionOptions {
	return SessionOptions{
		Store:      kv,
		Base:       httpclient.New(time.Second),
		CookieName: "sid",
		TTL:        time.Hour,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSession_IssuesCookieAndStore(t *testing.T) {
	var got *session.AuthStore
	h := Session(sessionOpts(memory.NewSessionStore(time.Hour)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetAuth(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.NotNil(t, got)
	require.False(t, got.Loading())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)
	_, err := uuid.Parse(cookies[0].Value)
	require.NoError(t, err)
	require.Equal(t, cookies[0].Value, got.SessionID())
}

func TestSession_ReusesValidCookie(t *testing.T) {
	kv := memory.NewSessionStore(time.Hour)
	sid := uuid.NewString()
	require.NoError(t, session.NewAuthStore(kv, sid, httpclient.New(time.Second)).
		Login(context.Background(), api.User{UserID: 3, Role: roles.Viewer, Token: "tok"}))

	var got *session.AuthStore
	h := Session(sessionOpts(kv))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetAuth(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, sid, got.SessionID())
	require.NotNil(t, got.User())
	require.Equal(t, "tok", got.Client().HTTP().Token())
}

func TestSession_RejectsForgedCookie(t *testing.T) {
	var got *session.AuthStore
	h := Session(sessionOpts(memory.NewSessionStore(time.Hour)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetAuth(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEqual(t, "../../etc", got.SessionID())
}

func serveGuarded(t *testing.T, kv session.KV, user *api.User, allowed roles.Set) *httptest.ResponseRecorder {
	t.Helper()
	sid := uuid.NewString()
	if user != nil {
		require.NoError(t, session.NewAuthStore(kv, sid, httpclient.New(time.Second)).Login(context.Background(), *user))
	}
	h := Session(sessionOpts(kv))(RequireRoles(allowed)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoles(t *testing.T) {
	upload := roles.ForRoute("/upload")

	rec := serveGuarded(t, memory.NewSessionStore(time.Hour), nil, upload)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serveGuarded(t, memory.NewSessionStore(time.Hour), &api.User{UserID: 1, Role: roles.Viewer, Token: "t"}, upload)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = serveGuarded(t, memory.NewSessionStore(time.Hour), &api.User{UserID: 1, Role: roles.Creator, Token: "t"}, upload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serveGuarded(t, brokenKV{}, nil, upload)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRedirectIfAuthenticated(t *testing.T) {
	kv := memory.NewSessionStore(time.Hour)
	sid := uuid.NewString()
	require.NoError(t, session.NewAuthStore(kv, sid, httpclient.New(time.Second)).
		Login(context.Background(), api.User{UserID: 1, Role: roles.Team, Token: "t"}))

	h := Session(sessionOpts(kv))(RedirectIfAuthenticated("/dashboard")(okHandler()))
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

type denyAfter struct{ n int }

func (d *denyAfter) Allow(string) bool {
	d.n--
	return d.n >= 0
}

func TestThrottle(t *testing.T) {
	h := Throttle(&denyAfter{n: 1}, nil)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRecover_RendersFallback(t *testing.T) {
	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Something went wrong"))
	})
	h := Recover(fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/1", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Something went wrong")
}

type pages struct{ routes []string }

func (p *pages) ObservePage(route string, _ int) { p.routes = append(p.routes, route) }

func TestRequestLogger_ObservesRoutePattern(t *testing.T) {
	obs := &pages{}
	r := chi.NewRouter()
	r.Use(RequestLogger(nil, obs))
	r.Get("/videos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/videos/42", nil))
	require.Equal(t, []string{"/videos/{id}"}, obs.routes)
}

type staticInspector struct{ claims auth.Claims }

func (s staticInspector) Inspect(context.Context, string) (auth.Claims, error) { return s.claims, nil }

func TestTokenClaims(t *testing.T) {
	kv := memory.NewSessionStore(time.Hour)
	sid := uuid.NewString()
	require.NoError(t, session.NewAuthStore(kv, sid, httpclient.New(time.Second)).
		Login(context.Background(), api.User{UserID: 1, Role: roles.Team, Token: "t"}))

	var got auth.Claims
	var ok bool
	h := Session(sessionOpts(kv))(TokenClaims(staticInspector{auth.Claims{Subject: "a@b.co"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = GetClaims(r.Context())
		})))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	require.Equal(t, "a@b.co", got.Subject)
}

type touchingKV struct {
	*memory.SessionStore
	touched []string
}

func (k *touchingKV) Touch(ctx context.Context, sid string) error {
	k.touched = append(k.touched, sid)
	return k.SessionStore.Touch(ctx, sid)
}

func TestSession_TouchesSignedInSessions(t *testing.T) {
	kv := &touchingKV{SessionStore: memory.NewSessionStore(time.Hour)}
	h := Session(sessionOpts(kv))(okHandler())

	// anónima: no se renueva nada
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Empty(t, kv.touched)

	sid := uuid.NewString()
	require.NoError(t, session.NewAuthStore(kv, sid, httpclient.New(time.Second)).
		Login(context.Background(), api.User{UserID: 3, Role: roles.Viewer, Token: "tok"}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/videos", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	require.Equal(t, []string{sid, sid}, kv.touched)
}

func TestSession_LogsSignInAndSignOut(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Out: &buf})

	h := Session(sessionOpts(memory.NewSessionStore(time.Hour)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, _ := GetAuth(r.Context())
		require.NoError(t, store.Login(r.Context(), api.User{UserID: 5, Role: roles.Creator, Token: "tok"}))
		require.NoError(t, store.Logout(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req = req.WithContext(logger.WithContext(req.Context(), log))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, `"message":"session signed in"`)
	require.Contains(t, out, `"user_id":5`)
	require.Contains(t, out, `"message":"session signed out"`)
}
