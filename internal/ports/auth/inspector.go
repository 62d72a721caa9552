package auth

import "context"

// TokenInspector lee los claims de un token sin verificar la firma.
type TokenInspector interface {
	Inspect(ctx context.Context, token string) (Claims, error)
}
