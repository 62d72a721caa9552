package api

import (
	"context"
	"net/http"
	"time"
)

// VideoAccessAPI: solicitudes de acceso y permisos (grants) por video.
type VideoAccessAPI struct{ c *Client }

func (a VideoAccessAPI) RequestAccess(ctx context.Context, in AccessRequestInput) (AccessRequest, error) {
	var out AccessRequest
	if err := a.c.do(ctx, http.MethodPost, "/video-access/request", in, &out); err != nil {
		return AccessRequest{}, err
	}
	return out, nil
}

// Check: {hasAccess}. Respuesta vacía => false.
func (a VideoAccessAPI) Check(ctx context.Context, videoID int64) (bool, error) {
	var out accessCheck
	if err := a.c.get(ctx, path("/video-access/check/%d", videoID), &out); err != nil {
		return false, err
	}
	return out.HasAccess, nil
}

func (a VideoAccessAPI) Pending(ctx context.Context) ([]AccessRequest, error) {
	return getList[AccessRequest](ctx, a.c, "/video-access/pending")
}

func (a VideoAccessAPI) MyRequests(ctx context.Context) ([]AccessRequest, error) {
	return getList[AccessRequest](ctx, a.c, "/video-access/my-requests")
}

func (a VideoAccessAPI) Approved(ctx context.Context) ([]AccessRequest, error) {
	return getList[AccessRequest](ctx, a.c, "/video-access/approved")
}

// Approve / Deny: mensaje vacío viaja como null.
func (a VideoAccessAPI) Approve(ctx context.Context, requestID int64, message string) error {
	return a.c.do(ctx, http.MethodPut, path("/video-access/%d/approve", requestID), messageBody{Message: optional(message)}, nil)
}

func (a VideoAccessAPI) Deny(ctx context.Context, requestID int64, message string) error {
	return a.c.do(ctx, http.MethodPut, path("/video-access/%d/deny", requestID), messageBody{Message: optional(message)}, nil)
}

func (a VideoAccessAPI) Revoke(ctx context.Context, requestID int64) error {
	return a.c.do(ctx, http.MethodDelete, path("/video-access/%d/revoke", requestID), nil, nil)
}

// Grants

func (a VideoAccessAPI) ForVideo(ctx context.Context, videoID int64) ([]Grant, error) {
	return getList[Grant](ctx, a.c, path("/video-access/video/%d", videoID))
}

func (a VideoAccessAPI) Suspend(ctx context.Context, permissionID int64, until time.Time) error {
	return a.c.do(ctx, http.MethodPut, path("/video-access/%d/suspend", permissionID), suspendBody{SuspendedUntil: LocalTime{Time: until}}, nil)
}

func (a VideoAccessAPI) RevokePermanent(ctx context.Context, permissionID int64, message string) error {
	return a.c.do(ctx, http.MethodPut, path("/video-access/%d/revoke-permanent", permissionID), messageBody{Message: optional(message)}, nil)
}

func (a VideoAccessAPI) Restore(ctx context.Context, permissionID int64) error {
	return a.c.do(ctx, http.MethodPut, path("/video-access/%d/restore", permissionID), nil, nil)
}
