package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "annotate-web/docs"
	"annotate-web/internal/adapters/storage/memory"
	"annotate-web/internal/domain/session"
	"annotate-web/internal/middleware"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/platform/metrics"
	"annotate-web/internal/platform/ratelimit"
	"annotate-web/internal/ports/auth"
	"annotate-web/internal/web/jsonapi"
	"annotate-web/internal/web/pages"
	"annotate-web/internal/web/view"
)

type Options struct {
	Log logger.Logger

	// Cliente base del backend; cada sesión usa una copia con su token.
	Base *httpclient.Client

	// Opcional: si no viene, sesiones in-memory.
	Sessions     session.KV
	CookieName   string
	SessionTTL   time.Duration
	CookieSecure bool

	Metrics *metrics.Metrics    // puede ser nil
	Tokens  auth.TokenInspector // puede ser nil (sin claims en /api/me)
	Limiter ratelimit.Limiter   // puede ser nil
	View    *view.Renderer      // nil => plantillas embebidas
}

func NewRouter(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Base == nil {
		opts.Base = httpclient.New(30 * time.Second)
	}
	if opts.CookieName == "" {
		opts.CookieName = "annotate_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.Sessions == nil {
		opts.Sessions = memory.NewSessionStore(opts.SessionTTL)
	}
	if opts.View == nil {
		opts.View = view.Must()
	}

	var pageObs middleware.PageObserver
	if opts.Metrics != nil {
		pageObs = opts.Metrics
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Log, pageObs))
	r.Use(middleware.Recover(opts.View.Fallback()))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Todo lo demás tiene sesión
	r.Group(func(sr chi.Router) {
		sr.Use(middleware.Session(middleware.SessionOptions{
			Store:      opts.Sessions,
			Base:       opts.Base,
			CookieName: opts.CookieName,
			TTL:        opts.SessionTTL,
			Secure:     opts.CookieSecure,
		}))
		sr.Use(middleware.TokenClaims(opts.Tokens))

		pages.RegisterRoutes(sr, pages.Deps{View: opts.View, Limiter: opts.Limiter})
		jsonapi.RegisterRoutes(sr)
	})

	r.NotFound(view.NotFound)

	return r
}
