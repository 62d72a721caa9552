package access

import (
	"errors"
	"strings"
	"time"

	"annotate-web/internal/api"
)

var ErrSuspendWindow = errors.New("suspend date and time required")

const DefaultRevokeMessage = "Access permanently revoked"

// DisplayStatus: revocado > suspendido > status crudo.
// suspendedUntil == now cuenta como vencido.
func DisplayStatus(g api.Grant, now time.Time) GrantStatus {
	if g.Revoked {
		return StatusPermanentlyRevoked
	}
	if suspended(g, now) {
		return StatusTempSuspended
	}
	return GrantStatus(g.Status)
}

// CanRestore: hay algo que deshacer (revocado o suspensión vigente).
func CanRestore(g api.Grant, now time.Time) bool {
	return g.Revoked || suspended(g, now)
}

func suspended(g api.Grant, now time.Time) bool {
	return g.SuspendedUntil != nil && g.SuspendedUntil.After(now)
}

// ViewGrants calcula el status de cada permiso con el mismo now.
func ViewGrants(gs []api.Grant, now time.Time) []GrantView {
	out := make([]GrantView, 0, len(gs))
	for _, g := range gs {
		out = append(out, GrantView{
			Grant:         g,
			DisplayStatus: DisplayStatus(g, now),
			CanRestore:    CanRestore(g, now),
		})
	}
	return out
}

// SuspendUntil arma el instante a partir de los inputs date (YYYY-MM-DD) y
// time (HH:MM) del formulario; segundos en 0.
func SuspendUntil(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrSuspendWindow
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, api.Location)
	if err != nil {
		return time.Time{}, ErrSuspendWindow
	}
	return t, nil
}
