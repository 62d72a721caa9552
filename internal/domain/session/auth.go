package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"annotate-web/internal/api"
	"annotate-web/internal/platform/httpclient"
)

var (
	ErrNoToken      = errors.New("login without token")
	ErrInvalidTheme = errors.New("invalid theme")
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// State es lo que ve la UI: usuario actual (o nil) y si todavía se está
// leyendo la sesión.
type State struct {
	User    *api.User
	Loading bool
}

func (s State) Authenticated() bool { return s.User != nil }

// AuthStore es la identidad de una sesión de navegador. Cada sesión tiene su
// propio cliente HTTP con su token.
type AuthStore struct {
	kv  KV
	sid string
	hc  *httpclient.Client
	api *api.Client

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

func NewAuthStore(kv KV, sessionID string, base *httpclient.Client) *AuthStore {
	hc := base.WithToken("")
	return &AuthStore{
		kv:        kv,
		sid:       sessionID,
		hc:        hc,
		api:       api.New(hc),
		state:     State{Loading: true},
		listeners: map[int]func(State){},
	}
}

func (s *AuthStore) SessionID() string { return s.sid }

// Client devuelve el cliente API de esta sesión.
func (s *AuthStore) Client() *api.Client { return s.api }

func (s *AuthStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *AuthStore) User() *api.User { return s.State().User }

func (s *AuthStore) Loading() bool { return s.State().Loading }

// Hydrate lee user+token del almacenamiento. Solo se confía en el usuario si
// existen ambas claves; no se valida el token contra el backend.
// Si el almacenamiento falla la sesión queda en Loading.
func (s *AuthStore) Hydrate(ctx context.Context) error {
	token, err := s.get(ctx, KeyToken)
	if err != nil {
		return err
	}
	raw, err := s.get(ctx, KeyUser)
	if err != nil {
		return err
	}

	var user *api.User
	if token != "" && raw != "" {
		var u api.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			u.Token = token
			user = &u
		}
	}

	if user != nil {
		s.hc.SetToken(token)
	} else {
		s.hc.ClearToken()
	}
	s.setState(State{User: user})
	return nil
}

// Login persiste el usuario devuelto por el backend y activa su token.
func (s *AuthStore) Login(ctx context.Context, u api.User) error {
	if u.Token == "" {
		return ErrNoToken
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session: marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, s.sid, KeyUser, string(b)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.sid, KeyToken, u.Token); err != nil {
		return err
	}
	s.hc.SetToken(u.Token)
	s.setState(State{User: &u})
	return nil
}

// Logout borra user+token y limpia el token en memoria: los requests
// siguientes salen sin Authorization.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.hc.ClearToken()
	s.setState(State{})
	return s.kv.Delete(ctx, s.sid, KeyUser, KeyToken)
}

// Touch renueva el vencimiento de una sesión con usuario, si el store lo
// soporta. Una sesión anónima no se toca.
func (s *AuthStore) Touch(ctx context.Context) error {
	if s.User() == nil {
		return nil
	}
	t, ok := s.kv.(Toucher)
	if !ok {
		return nil
	}
	return t.Touch(ctx, s.sid)
}

// Subscribe registra fn para cada cambio de estado. Devuelve la baja.
func (s *AuthStore) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *AuthStore) Theme(ctx context.Context) string {
	t, err := s.get(ctx, KeyTheme)
	if err != nil || t != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (s *AuthStore) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	return s.kv.Set(ctx, s.sid, KeyTheme, theme)
}

// ToggleTheme alterna light/dark y devuelve el nuevo valor.
func (s *AuthStore) ToggleTheme(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Theme(ctx) == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

// Flash: mensaje de un solo uso para el siguiente render.
func (s *AuthStore) SetFlash(ctx context.Context, msg string) error {
	return s.kv.Set(ctx, s.sid, KeyFlash, msg)
}

// PopFlash lee y borra el flash.
func (s *AuthStore) PopFlash(ctx context.Context) string {
	msg, err := s.get(ctx, KeyFlash)
	if err != nil || msg == "" {
		return ""
	}
	_ = s.kv.Delete(ctx, s.sid, KeyFlash)
	return msg
}

func (s *AuthStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, s.sid, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (s *AuthStore) setState(st State) {
	s.mu.Lock()
	s.state = st
	ls := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		ls = append(ls, fn)
	}
	s.mu.Unlock()

	for _, fn := range ls {
		fn(st)
	}
}
