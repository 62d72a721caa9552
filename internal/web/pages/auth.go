package pages

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/guard"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/middleware"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/web/view"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

type authForm struct {
	Register bool
	Name     string
	Email    string
	Role     roles.Role
	Roles    []roles.Role
}

func newAuthForm(register bool) authForm {
	return authForm{Register: register, Role: roles.Viewer, Roles: roles.Registrable()}
}

// validateCredentials: mismas reglas que el formulario, antes de ir a la red.
func validateCredentials(email, password string) string {
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	if len(password) < minPasswordLength {
		return "Password must be at least 6 characters long"
	}
	return ""
}

func renderAuth(d Deps, w http.ResponseWriter, r *http.Request, status int, form authForm, msg string) {
	title := "Sign in"
	if form.Register {
		title = "Register"
	}
	p := d.View.Page(r, title, "")
	p.Error = msg
	p.Data = form
	d.View.Render(w, r, status, "login", p)
}

func loginPageHandler(d Deps, register bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderAuth(d, w, r, http.StatusOK, newAuthForm(register), "")
	}
}

func loginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		if store == nil {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		form := newAuthForm(false)
		form.Email = strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if msg := validateCredentials(form.Email, password); msg != "" {
			renderAuth(d, w, r, http.StatusBadRequest, form, msg)
			return
		}

		u, err := store.Client().Auth().Login(r.Context(), form.Email, password)
		if err != nil {
			msg := view.ErrorText(err, view.MsgLoginError)
			if errors.Is(err, api.ErrNoToken) {
				msg = view.MsgLoginError
			}
			renderAuth(d, w, r, http.StatusUnauthorized, form, msg)
			return
		}
		if err := store.Login(r.Context(), u); err != nil {
			logger.FromContext(r.Context()).Error("session login failed", map[string]any{"error": err})
			renderAuth(d, w, r, http.StatusServiceUnavailable, form, "Could not start your session. Please try again.")
			return
		}

		view.Redirect(w, r, guard.DashboardPath, "Login successful!")
	}
}

func registerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		if store == nil {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		form := newAuthForm(true)
		form.Name = strings.TrimSpace(r.PostFormValue("name"))
		form.Email = strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		role, err := roles.Parse(r.PostFormValue("role"))
		if err != nil {
			renderAuth(d, w, r, http.StatusBadRequest, form, "Please choose a role")
			return
		}
		form.Role = role
		if form.Name == "" {
			renderAuth(d, w, r, http.StatusBadRequest, form, "Name is required")
			return
		}
		if msg := validateCredentials(form.Email, password); msg != "" {
			renderAuth(d, w, r, http.StatusBadRequest, form, msg)
			return
		}

		u, err := store.Client().Auth().Register(r.Context(), api.RegisterRequest{
			Email:    form.Email,
			Password: password,
			Name:     form.Name,
			Role:     role,
		})
		if err != nil {
			msg := view.ErrorText(err, view.MsgRegisterError)
			if errors.Is(err, api.ErrNoToken) {
				msg = view.MsgRegisterError
			}
			renderAuth(d, w, r, http.StatusBadRequest, form, msg)
			return
		}
		if err := store.Login(r.Context(), u); err != nil {
			logger.FromContext(r.Context()).Error("session login failed", map[string]any{"error": err})
			renderAuth(d, w, r, http.StatusServiceUnavailable, form, "Could not start your session. Please try again.")
			return
		}

		logger.FromContext(r.Context()).Info("user registered", map[string]any{"user_id": u.UserID, "role": u.Role.String()})
		view.Redirect(w, r, guard.DashboardPath, "Registration successful!")
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store, ok := middleware.GetAuth(r.Context()); ok {
			if err := store.Logout(r.Context()); err != nil {
				logger.FromContext(r.Context()).Warn("session logout failed", map[string]any{"error": err})
			}
		}
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
	}
}

func themeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store, ok := middleware.GetAuth(r.Context()); ok {
			if _, err := store.ToggleTheme(r.Context()); err != nil {
				logger.FromContext(r.Context()).Warn("theme not stored", map[string]any{"error": err})
			}
		}
		to := guard.DashboardPath
		if ref := r.Referer(); ref != "" {
			if u, err := r.URL.Parse(ref); err == nil && u.Host == r.Host {
				to = u.RequestURI()
			}
		}
		http.Redirect(w, r, to, http.StatusSeeOther)
	}
}
