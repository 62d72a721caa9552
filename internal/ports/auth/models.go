package auth

import "time"

// Claims representa lo que el cliente puede leer del token del backend.
// Solo se usa para mostrar; la firma la valida el backend.
type Claims struct {
	Subject   string
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// Expired: sin exp => nunca vence.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
