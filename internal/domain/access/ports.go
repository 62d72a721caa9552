package access

import (
	"context"
	"time"

	"annotate-web/internal/api"
)

// Requests: solicitudes y permisos (lo implementa api.VideoAccessAPI).
type Requests interface {
	Check(ctx context.Context, videoID int64) (bool, error)
	MyRequests(ctx context.Context) ([]api.AccessRequest, error)
	Pending(ctx context.Context) ([]api.AccessRequest, error)
	Approved(ctx context.Context) ([]api.AccessRequest, error)
	RequestAccess(ctx context.Context, in api.AccessRequestInput) (api.AccessRequest, error)
	Approve(ctx context.Context, requestID int64, message string) error
	Deny(ctx context.Context, requestID int64, message string) error
	Revoke(ctx context.Context, requestID int64) error

	ForVideo(ctx context.Context, videoID int64) ([]api.Grant, error)
	Suspend(ctx context.Context, permissionID int64, until time.Time) error
	RevokePermanent(ctx context.Context, permissionID int64, message string) error
	Restore(ctx context.Context, permissionID int64) error
}

// Codes: códigos de acceso (lo implementa api.AccessCodesAPI).
type Codes interface {
	Generate(ctx context.Context, videoID int64) (string, error)
	Get(ctx context.Context, videoID int64) (string, error)
	Redeem(ctx context.Context, code string) (bool, error)
	Disable(ctx context.Context, videoID int64) error
}
