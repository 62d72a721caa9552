// Package jwtclaims lee los claims del JWT que emite el backend de Annotate.
package jwtclaims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"annotate-web/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

type tokenClaims struct {
	UserID int64  `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Inspector implementa auth.TokenInspector. No tiene el secreto del
// backend: parsea sin verificar firma.
type Inspector struct {
	parser *jwt.Parser
}

func New() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

func (i *Inspector) Inspect(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var tc tokenClaims
	if _, _, err := i.parser.ParseUnverified(token, &tc); err != nil {
		return auth.Claims{}, fmt.Errorf("jwt parse failed: %w", err)
	}

	out := auth.Claims{
		Subject: tc.Subject,
		UserID:  tc.UserID,
		Role:    tc.Role,
	}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, nil
}
