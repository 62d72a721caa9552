package session

import (
	"context"
	"errors"
)

// Claves persistidas por sesión de navegador.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyTheme = "theme"
	KeyFlash = "flash"
)

var ErrNotFound = errors.New("session key not found")

// KV es el almacenamiento durable de la sesión (memoria, postgres o redis).
// Get devuelve ErrNotFound si la clave no existe.
type KV interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Toucher renueva el vencimiento de todos los valores vivos de una sesión.
// Lo implementan los stores con TTL; sin él, el vencimiento corre desde la
// última escritura.
type Toucher interface {
	Touch(ctx context.Context, sessionID string) error
}

// Keys son todas las claves que puede tener una sesión.
func Keys() []string { return []string{KeyToken, KeyUser, KeyTheme, KeyFlash} }
