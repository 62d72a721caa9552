// Package view renderiza las páginas HTML (layout + una plantilla por página).
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/access"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/middleware"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
)

//go:embed templates/*.html
var files embed.FS

// Mensajes genéricos cuando el backend no manda texto.
const (
	MsgLoginError    = "Login failed. Please check your credentials."
	MsgRegisterError = "Registration failed. Please try again."
	MsgNetworkError  = "Network error. Please check your connection."
	MsgUnauthorized  = "You are not authorized to perform this action."
	MsgNoData        = "No data available"
)

var pages = []string{
	"login",
	"dashboard",
	"videos",
	"video",
	"grants",
	"access_code",
	"access_requests",
	"unlock",
	"upload",
	"teams",
	"creators",
	"creator",
	"error",
}

var funcs = template.FuncMap{
	// m:ss para marcas de feedback
	"formatTimestamp": func(seconds int) string {
		if seconds < 0 {
			seconds = 0
		}
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	},
	"formatTime": func(t *api.LocalTime) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("Jan 02, 2006 03:04 PM")
	},
	"formatCode":       access.FormatCode,
	"lower":            func(v any) string { return strings.ToLower(fmt.Sprint(v)) },
	"feedbackStatuses": api.FeedbackStatuses,
}

// Page es el modelo común a todas las vistas.
type Page struct {
	Title  string
	Active string
	User   *api.User
	Menu   []roles.MenuItem
	Theme  string
	Flash  string
	Error  string
	Data   any
}

// HasRole para condicionales en plantillas.
func (p Page) HasRole(rs ...string) bool {
	if p.User == nil {
		return false
	}
	for _, r := range rs {
		if string(p.User.Role) == r {
			return true
		}
	}
	return false
}

type Renderer struct {
	tmpl map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{tmpl: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.tmpl[name] = t
	}
	return r, nil
}

// Must es New que entra en pánico; para main y tests.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Page arma el modelo base desde la sesión del request. Consume el flash.
func (v *Renderer) Page(r *http.Request, title, active string) Page {
	p := Page{Title: title, Active: active, Theme: "light"}
	store, ok := middleware.GetAuth(r.Context())
	if !ok {
		return p
	}
	p.Theme = store.Theme(r.Context())
	p.Flash = store.PopFlash(r.Context())
	if u := store.User(); u != nil {
		p.User = u
		p.Menu = roles.Menu(u.Role)
	}
	return p
}

// Render ejecuta la plantilla en un buffer; un error de plantilla no deja
// una respuesta a medias.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	t, ok := v.tmpl[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		logger.FromContext(r.Context()).Error("render failed", map[string]any{"page": name, "error": err})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Fallback es la página de "algo salió mal" para Recover.
func (v *Renderer) Fallback() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := Page{Title: "Something went wrong", Theme: "light"}
		p.Error = "Something went wrong. Please reload the page."
		v.Render(w, r, http.StatusInternalServerError, "error", p)
	})
}

// NotFound: rutas desconocidas van al dashboard.
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ErrorText: texto del backend si hubo respuesta HTTP; si no, fallback.
func ErrorText(err error, fallback string) string {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return he.Error()
	}
	if fallback == "" {
		return MsgNetworkError
	}
	return fallback
}

// Redirect deja un flash en la sesión y hace 303 (post/redirect/get).
func Redirect(w http.ResponseWriter, r *http.Request, to, flash string) {
	if flash != "" {
		if store, ok := middleware.GetAuth(r.Context()); ok {
			if err := store.SetFlash(r.Context(), flash); err != nil {
				logger.FromContext(r.Context()).Warn("flash not stored", map[string]any{"error": err})
			}
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
