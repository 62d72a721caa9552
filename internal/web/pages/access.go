package pages

import (
	"context"
	"errors"
	"net/http"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/access"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/web/view"
)

// Solicitudes de acceso

type accessRequestsPage struct {
	IsCreator bool
	access.Overview
}

func accessRequestsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		p := d.View.Page(r, "Access Requests", "access-requests")

		ov, err := access.FromClient(store.Client()).Overview(r.Context(), user.Role)
		if err != nil {
			logger.FromContext(r.Context()).Warn("access requests load failed", map[string]any{"error": err})
			p.Error = view.ErrorText(err, "Failed to load requests")
		}

		p.Data = accessRequestsPage{IsCreator: user.Role == roles.Creator, Overview: ov}
		d.View.Render(w, r, http.StatusOK, "access_requests", p)
	}
}

type requestResponse func(ctx context.Context, svc *access.Service, id int64, message string) (string, error)

func approveRequest(ctx context.Context, svc *access.Service, id int64, message string) (string, error) {
	if err := svc.Approve(ctx, id, message); err != nil {
		return "Failed to approve request", err
	}
	return "Access request approved!", nil
}

func denyRequest(ctx context.Context, svc *access.Service, id int64, message string) (string, error) {
	if err := svc.Deny(ctx, id, message); err != nil {
		return "Failed to deny request", err
	}
	return "Access request denied", nil
}

func respondRequestHandler(respond requestResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if err := r.ParseForm(); err != nil || !ok {
			view.Redirect(w, r, "/access-requests", "Invalid form")
			return
		}
		msg, err := respond(r.Context(), access.FromClient(store.Client()), id, r.PostFormValue("message"))
		if err != nil {
			msg = view.ErrorText(err, msg)
		}
		view.Redirect(w, r, "/access-requests", msg)
	}
}

func revokeRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if !ok {
			view.Redirect(w, r, "/access-requests", "Invalid form")
			return
		}
		if err := access.FromClient(store.Client()).Revoke(r.Context(), id); err != nil {
			view.Redirect(w, r, "/access-requests", view.ErrorText(err, "Failed to revoke access"))
			return
		}
		view.Redirect(w, r, "/access-requests", "Access revoked successfully")
	}
}

// Permisos por video (solo su creator)

type grantsPage struct {
	Video                api.Video
	Grants               []access.GrantView
	DefaultRevokeMessage string
}

// ownVideo carga el video y verifica que user sea su creator.
func ownVideo(ctx context.Context, c *api.Client, user api.User, id int64) (api.Video, error) {
	v, err := c.Videos().Get(ctx, id)
	if err != nil {
		return api.Video{}, err
	}
	if v.CreatorID() != user.UserID {
		return api.Video{}, errNotOwner
	}
	return v, nil
}

var errNotOwner = errors.New("not the video creator")

func grantsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		p := d.View.Page(r, "Manage access", "videos")

		id, ok := idParam(r, "id")
		if !ok {
			p.Error = "Video not found"
			d.View.Render(w, r, http.StatusNotFound, "error", p)
			return
		}
		c := store.Client()
		v, err := ownVideo(r.Context(), c, user, id)
		switch {
		case errors.Is(err, errNotOwner):
			view.Redirect(w, r, videoPath(id), view.MsgUnauthorized)
			return
		case errors.Is(err, api.ErrNotFound):
			p.Error = "Video not found"
			d.View.Render(w, r, http.StatusNotFound, "error", p)
			return
		case err != nil:
			p.Error = view.ErrorText(err, "Failed to load video")
			d.View.Render(w, r, http.StatusBadGateway, "error", p)
			return
		}

		data := grantsPage{Video: v, DefaultRevokeMessage: access.DefaultRevokeMessage}
		gs, err := access.FromClient(c).Grants(r.Context(), id)
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load access list")
		}
		data.Grants = gs

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "grants", p)
	}
}

type grantAction func(ctx context.Context, svc *access.Service, r *http.Request, grantID int64) (string, error)

func suspendGrant(ctx context.Context, svc *access.Service, r *http.Request, grantID int64) (string, error) {
	err := svc.Suspend(ctx, grantID, r.PostFormValue("date"), r.PostFormValue("time"))
	if errors.Is(err, access.ErrSuspendWindow) {
		return "Please select both date and time.", err
	}
	if err != nil {
		return "Failed to suspend access", err
	}
	return "Access suspended", nil
}

func revokeGrant(ctx context.Context, svc *access.Service, r *http.Request, grantID int64) (string, error) {
	if err := svc.RevokePermanent(ctx, grantID, r.PostFormValue("message")); err != nil {
		return "Failed to revoke access", err
	}
	return "Access permanently revoked", nil
}

func restoreGrant(ctx context.Context, svc *access.Service, _ *http.Request, grantID int64) (string, error) {
	if err := svc.Restore(ctx, grantID); err != nil {
		return "Failed to restore access", err
	}
	return "Access restored", nil
}

func grantActionHandler(action grantAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		id, ok := idParam(r, "id")
		grantID, gok := idParam(r, "grantID")
		if err := r.ParseForm(); err != nil || !ok || !gok {
			view.Redirect(w, r, "/videos", "Invalid form")
			return
		}
		to := videoPath(id) + "/access"

		c := store.Client()
		if _, err := ownVideo(r.Context(), c, user, id); err != nil {
			view.Redirect(w, r, videoPath(id), view.MsgUnauthorized)
			return
		}

		msg, err := action(r.Context(), access.FromClient(c), r, grantID)
		if err != nil && !errors.Is(err, access.ErrSuspendWindow) {
			msg = view.ErrorText(err, msg)
		}
		logger.FromContext(r.Context()).Info("grant updated", map[string]any{
			"video_id": id,
			"grant_id": grantID,
			"ok":       err == nil,
		})
		view.Redirect(w, r, to, msg)
	}
}

// Código de acceso

type accessCodePage struct {
	Video api.Video
	Code  string
}

func accessCodeHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		p := d.View.Page(r, "Access code", "videos")

		id, ok := idParam(r, "id")
		if !ok {
			p.Error = "Video not found"
			d.View.Render(w, r, http.StatusNotFound, "error", p)
			return
		}
		c := store.Client()
		v, err := c.Videos().Get(r.Context(), id)
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load video")
			d.View.Render(w, r, http.StatusBadGateway, "error", p)
			return
		}
		if user.Role != roles.Admin && v.CreatorID() != user.UserID {
			view.Redirect(w, r, videoPath(id), view.MsgUnauthorized)
			return
		}

		data := accessCodePage{Video: v}
		code, err := access.FromClient(c).CurrentCode(r.Context(), id)
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load access code")
		}
		data.Code = code

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "access_code", p)
	}
}

func generateCodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if !ok {
			view.Redirect(w, r, "/videos", "Video not found")
			return
		}
		to := videoPath(id) + "/access-code"
		code, err := access.FromClient(store.Client()).GenerateCode(r.Context(), id)
		if err != nil {
			view.Redirect(w, r, to, view.ErrorText(err, "Failed to generate access code"))
			return
		}
		view.Redirect(w, r, to, "New access code: "+access.FormatCode(code))
	}
}

func disableCodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if !ok {
			view.Redirect(w, r, "/videos", "Video not found")
			return
		}
		to := videoPath(id) + "/access-code"
		if err := access.FromClient(store.Client()).DisableCode(r.Context(), id); err != nil {
			view.Redirect(w, r, to, view.ErrorText(err, "Failed to disable access code"))
			return
		}
		view.Redirect(w, r, to, "Access code disabled")
	}
}

// Canje

type unlockPage struct {
	Code string
}

func unlockPageHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := d.View.Page(r, "Unlock Video", "unlock")
		p.Data = unlockPage{}
		d.View.Render(w, r, http.StatusOK, "unlock", p)
	}
}

func unlockHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		raw := r.PostFormValue("code")

		ok, err := access.FromClient(store.Client()).Redeem(r.Context(), raw)
		if err == nil && ok {
			logger.FromContext(r.Context()).Info("access code redeemed", map[string]any{"user_id": user.UserID})
			view.Redirect(w, r, "/videos", "Video unlocked successfully! You can now access this video from your Videos page.")
			return
		}

		status := http.StatusBadRequest
		if err != nil && !errors.Is(err, access.ErrCodeTooShort) {
			status = http.StatusUnprocessableEntity
		}
		p := d.View.Page(r, "Unlock Video", "unlock")
		p.Error = redeemMessage(ok, err)
		p.Data = unlockPage{Code: access.NormalizeCode(raw)}
		d.View.Render(w, r, status, "unlock", p)
	}
}
