package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/platform/httpclient"
)

var ErrInvalidInput = errors.New("invalid input")

const DefaultRequestReason = "No reason provided"

type Service struct {
	requests Requests
	codes    Codes
	now      func() time.Time
}

func NewService(requests Requests, codes Codes) *Service {
	return &Service{
		requests: requests,
		codes:    codes,
		now:      time.Now,
	}
}

// FromClient arma el servicio sobre el cliente API de una sesión.
func FromClient(c *api.Client) *Service {
	return NewService(c.VideoAccess(), c.AccessCodes())
}

// Resolve reconcilia el estado de acceso de viewer sobre video:
//  1. creator del video o ADMIN => Owner (sin red)
//  2. check true => HasAccess
//  3. primera solicitud propia para el video => Pending / Resolved
//  4. nada => NoRequest
func (s *Service) Resolve(ctx context.Context, viewer api.User, video api.Video) (Decision, error) {
	if viewer.Role == roles.Admin || (video.CreatorID() != 0 && video.CreatorID() == viewer.UserID) {
		return Decision{State: StateOwner}, nil
	}

	ok, err := s.requests.Check(ctx, video.ID)
	if err != nil {
		return Decision{}, err
	}
	if ok {
		return Decision{State: StateHasAccess}, nil
	}

	mine, err := s.requests.MyRequests(ctx)
	if err != nil {
		return Decision{}, err
	}
	for i := range mine {
		if mine[i].VideoID != video.ID {
			continue
		}
		req := mine[i]
		if req.Status == api.RequestPending {
			return Decision{State: StateRequestPending, Request: &req}, nil
		}
		return Decision{State: StateRequestResolved, Request: &req}, nil
	}
	return Decision{State: StateNoRequest}, nil
}

func (s *Service) RequestAccess(ctx context.Context, videoID int64, reason string) (api.AccessRequest, error) {
	if videoID <= 0 {
		return api.AccessRequest{}, ErrInvalidInput
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRequestReason
	}
	return s.requests.RequestAccess(ctx, api.AccessRequestInput{VideoID: videoID, RequestReason: reason})
}

// Overview carga en paralelo las listas de la página de solicitudes.
// Pending/Approved solo para CREATOR.
func (s *Service) Overview(ctx context.Context, role roles.Role) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mine, err := s.requests.MyRequests(gctx)
		out.MyRequests = mine
		return err
	})
	if role == roles.Creator {
		g.Go(func() error {
			pending, err := s.requests.Pending(gctx)
			out.Pending = pending
			return err
		})
		g.Go(func() error {
			approved, err := s.requests.Approved(gctx)
			out.Approved = approved
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, requestID int64, message string) error {
	if requestID <= 0 {
		return ErrInvalidInput
	}
	return s.requests.Approve(ctx, requestID, strings.TrimSpace(message))
}

func (s *Service) Deny(ctx context.Context, requestID int64, message string) error {
	if requestID <= 0 {
		return ErrInvalidInput
	}
	return s.requests.Deny(ctx, requestID, strings.TrimSpace(message))
}

func (s *Service) Revoke(ctx context.Context, requestID int64) error {
	if requestID <= 0 {
		return ErrInvalidInput
	}
	return s.requests.Revoke(ctx, requestID)
}

// Grants

func (s *Service) Grants(ctx context.Context, videoID int64) ([]GrantView, error) {
	gs, err := s.requests.ForVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return ViewGrants(gs, s.now()), nil
}

func (s *Service) Suspend(ctx context.Context, permissionID int64, date, clock string) error {
	if permissionID <= 0 {
		return ErrInvalidInput
	}
	until, err := SuspendUntil(date, clock)
	if err != nil {
		return err
	}
	return s.requests.Suspend(ctx, permissionID, until)
}

func (s *Service) RevokePermanent(ctx context.Context, permissionID int64, message string) error {
	if permissionID <= 0 {
		return ErrInvalidInput
	}
	return s.requests.RevokePermanent(ctx, permissionID, strings.TrimSpace(message))
}

func (s *Service) Restore(ctx context.Context, permissionID int64) error {
	if permissionID <= 0 {
		return ErrInvalidInput
	}
	return s.requests.Restore(ctx, permissionID)
}

// Codes

// Redeem valida el largo antes de cualquier request.
func (s *Service) Redeem(ctx context.Context, raw string) (bool, error) {
	code, err := ValidateCode(raw)
	if err != nil {
		return false, err
	}
	return s.codes.Redeem(ctx, code)
}

// CurrentCode: "" si el video no tiene código (el backend responde error).
func (s *Service) CurrentCode(ctx context.Context, videoID int64) (string, error) {
	code, err := s.codes.Get(ctx, videoID)
	if err != nil {
		if httpclient.StatusCode(err) != 0 {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *Service) GenerateCode(ctx context.Context, videoID int64) (string, error) {
	if videoID <= 0 {
		return "", ErrInvalidInput
	}
	return s.codes.Generate(ctx, videoID)
}

func (s *Service) DisableCode(ctx context.Context, videoID int64) error {
	if videoID <= 0 {
		return ErrInvalidInput
	}
	return s.codes.Disable(ctx, videoID)
}
