// Package pages tiene los handlers HTML: cada página carga sus datos en cada
// request con el cliente API de la sesión y las acciones son POST + redirect.
package pages

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/guard"
	"annotate-web/internal/domain/session"
	"annotate-web/internal/middleware"
	"annotate-web/internal/platform/ratelimit"
	"annotate-web/internal/web/view"
)

type Deps struct {
	View *view.Renderer

	// Limiter para login, registro y canje de códigos. nil = sin límite.
	Limiter ratelimit.Limiter
}

func RegisterRoutes(r chi.Router, d Deps) {
	throttle := middleware.Throttle(d.Limiter, nil)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, guard.DashboardPath, http.StatusSeeOther)
	})

	// Públicas
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RedirectIfAuthenticated(guard.DashboardPath))
		pr.Get("/login", loginPageHandler(d, false))
		pr.Get("/register", loginPageHandler(d, true))
		pr.With(throttle).Post("/login", loginHandler(d))
		pr.With(throttle).Post("/register", registerHandler(d))
	})
	r.Post("/logout", logoutHandler())
	r.Post("/theme", themeHandler())

	// Cualquier usuario autenticado
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RequireRoute("/dashboard"))

		ar.Get("/dashboard", dashboardHandler(d))

		ar.Get("/videos", videosHandler(d))
		ar.Get("/videos/{id}", videoHandler(d))
		ar.Post("/videos/{id}/publish", publishHandler())
		ar.Post("/videos/{id}/delete", deleteVideoHandler())
		ar.Post("/videos/{id}/feedback", createFeedbackHandler())
		ar.Post("/videos/{id}/request-access", requestAccessHandler())
		ar.With(throttle).Post("/videos/{id}/redeem", redeemForVideoHandler())

		ar.Get("/videos/{id}/access-code", accessCodeHandler(d))
		ar.Post("/videos/{id}/access-code", generateCodeHandler())
		ar.Post("/videos/{id}/access-code/disable", disableCodeHandler())

		ar.Post("/feedback/{id}/approve", moderateFeedbackHandler(approveFeedback))
		ar.Post("/feedback/{id}/reject", moderateFeedbackHandler(rejectFeedback))
		ar.Post("/feedback/{id}/status", feedbackStatusHandler())

		ar.Get("/access-requests", accessRequestsHandler(d))
		ar.Post("/access-requests/{id}/approve", respondRequestHandler(approveRequest))
		ar.Post("/access-requests/{id}/deny", respondRequestHandler(denyRequest))
		ar.Post("/access-requests/{id}/revoke", revokeRequestHandler())

		ar.Get("/creators", creatorsHandler(d))
		ar.Get("/creators/{id}", creatorHandler(d))
	})

	r.With(middleware.RequireRoute("/unlock")).Get("/unlock", unlockPageHandler(d))
	r.With(middleware.RequireRoute("/unlock"), throttle).Post("/unlock", unlockHandler(d))

	r.Group(func(ur chi.Router) {
		ur.Use(middleware.RequireRoute("/upload"))
		ur.Get("/upload", uploadPageHandler(d))
		ur.Post("/upload", uploadHandler(d))
	})

	// Solo el creator del video (el handler verifica la autoría)
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireRoute("/videos/{id}/access"))
		gr.Get("/videos/{id}/access", grantsHandler(d))
		gr.Post("/videos/{id}/access/{grantID}/suspend", grantActionHandler(suspendGrant))
		gr.Post("/videos/{id}/access/{grantID}/revoke", grantActionHandler(revokeGrant))
		gr.Post("/videos/{id}/access/{grantID}/restore", grantActionHandler(restoreGrant))
	})

	r.Group(func(tr chi.Router) {
		tr.Use(middleware.RequireRoute("/teams"))
		tr.Get("/teams", teamsHandler(d))
		tr.Post("/teams", createTeamHandler())
		tr.Get("/teams/{id}/members", teamsHandler(d))
	})
}

// current devuelve la sesión y su usuario. Detrás de un guard el usuario
// siempre existe.
func current(r *http.Request) (*session.AuthStore, api.User) {
	store, ok := middleware.GetAuth(r.Context())
	if !ok {
		return nil, api.User{}
	}
	if u := store.User(); u != nil {
		return store, *u
	}
	return store, api.User{}
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formInt(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// back: destino del redirect tras una acción; solo paths locales.
func back(r *http.Request, fallback string) string {
	next := r.PostFormValue("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}

func videoPath(id int64) string {
	return "/videos/" + strconv.FormatInt(id, 10)
}
