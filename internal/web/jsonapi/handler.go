// Package jsonapi expone en JSON el estado reconciliado de la sesión para
// scripts del navegador. Documentado con swaggo (ver docs/).
package jsonapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/access"
	"annotate-web/internal/domain/session"
	"annotate-web/internal/middleware"
	"annotate-web/internal/platform/httpclient"
	"annotate-web/internal/platform/logger"
)

func RegisterRoutes(r chi.Router) {
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/me", meHandler(time.Now))
		ar.Get("/videos/{id}/access-state", accessStateHandler())
		ar.Get("/videos/{id}/grants", grantsHandler())
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type userResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	TeamID *int64 `json:"teamId,omitempty"`
}

type meResponse struct {
	Authenticated  bool          `json:"authenticated"`
	User           *userResponse `json:"user,omitempty"`
	TokenExpiresAt *time.Time    `json:"tokenExpiresAt,omitempty"`
	TokenExpired   bool          `json:"tokenExpired"`
}

type accessStateResponse struct {
	VideoID         int64  `json:"videoId"`
	State           string `json:"state"`
	Locked          bool   `json:"locked"`
	CanModerate     bool   `json:"canModerate"`
	CanComment      bool   `json:"canComment"`
	RequestStatus   string `json:"requestStatus,omitempty"`
	ResponseMessage string `json:"responseMessage,omitempty"`
}

// meHandler godoc
// @Summary      Usuario de la sesión
// @Description  Usuario guardado en la sesión y vencimiento del token (leído del JWT, solo informativo).
// @Tags         session
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      503  {object}  errorResponse
// @Router       /me [get]
func meHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := middleware.GetAuth(r.Context())
		if !ok {
			writeJSON(w, http.StatusOK, meResponse{})
			return
		}
		if store.Loading() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "session loading"})
			return
		}

		u := store.User()
		if u == nil {
			writeJSON(w, http.StatusOK, meResponse{})
			return
		}
		resp := meResponse{
			Authenticated: true,
			User: &userResponse{
				UserID: u.UserID,
				Email:  u.Email,
				Name:   u.Name,
				Role:   u.Role.String(),
				TeamID: u.TeamID,
			},
		}
		if claims, ok := middleware.GetClaims(r.Context()); ok && !claims.ExpiresAt.IsZero() {
			exp := claims.ExpiresAt.UTC()
			resp.TokenExpiresAt = &exp
			resp.TokenExpired = claims.Expired(now())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// accessStateHandler godoc
// @Summary      Estado de acceso a un video
// @Description  Reconciliación owner / acceso / solicitud para el usuario de la sesión.
// @Tags         videos
// @Produce      json
// @Param        id   path      int  true  "Video ID"
// @Success      200  {object}  accessStateResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /videos/{id}/access-state [get]
func accessStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user, ok := requireUser(w, r)
		if !ok {
			return
		}
		id, ok := videoID(w, r)
		if !ok {
			return
		}

		c := store.Client()
		video, err := c.Videos().Get(r.Context(), id)
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}
		dec, err := access.FromClient(c).Resolve(r.Context(), user, video)
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, accessStateResponse{
			VideoID:         id,
			State:           string(dec.State),
			Locked:          dec.Locked(),
			CanModerate:     dec.CanModerate(),
			CanComment:      dec.CanComment(),
			RequestStatus:   string(dec.Status()),
			ResponseMessage: dec.ResponseMessage(),
		})
	}
}

// grantsHandler godoc
// @Summary      Permisos de un video
// @Description  Lista de viewers con acceso y su status derivado (revocado / suspendido / crudo).
// @Tags         videos
// @Produce      json
// @Param        id   path      int  true  "Video ID"
// @Success      200  {array}   access.GrantView
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /videos/{id}/grants [get]
func grantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _, ok := requireUser(w, r)
		if !ok {
			return
		}
		id, ok := videoID(w, r)
		if !ok {
			return
		}

		gs, err := access.FromClient(store.Client()).Grants(r.Context(), id)
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}
		if gs == nil {
			gs = []access.GrantView{}
		}
		writeJSON(w, http.StatusOK, gs)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (*session.AuthStore, api.User, bool) {
	store, ok := middleware.GetAuth(r.Context())
	if ok && store.Loading() {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "session loading"})
		return nil, api.User{}, false
	}
	if !ok || store.User() == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return nil, api.User{}, false
	}
	return store, *store.User(), true
}

func videoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid video id"})
		return 0, false
	}
	return id, true
}

// writeUpstreamError: respeta el status del backend; transporte => 502.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpclient.HTTPError
	switch {
	case errors.Is(err, api.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &he):
		writeJSON(w, he.StatusCode, errorResponse{Error: he.Error()})
	default:
		logger.FromContext(r.Context()).Warn("upstream failed", map[string]any{"error": err})
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "backend unavailable"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
