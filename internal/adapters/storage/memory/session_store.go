package memory

import (
	"context"
	"sync"
	"time"

	"annotate-web/internal/domain/session"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// SessionStore guarda los valores de sesión en proceso. Se pierden al
// reiniciar; sirve para desarrollo y tests.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		data: make(map[string]map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID][key]
	if !ok || s.expired(e) {
		return "", session.ErrNotFound
	}
	return e.value, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vals, ok := s.data[sessionID]
	if !ok {
		vals = make(map[string]entry)
		s.data[sessionID] = vals
	}
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	vals[key] = e
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vals, ok := s.data[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(vals, k)
	}
	if len(vals) == 0 {
		delete(s.data, sessionID)
	}
	return nil
}

// Touch extiende el vencimiento de lo que sigue vivo en la sesión.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	if s.ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exp := s.now().Add(s.ttl)
	for k, e := range s.data[sessionID] {
		if s.expired(e) {
			continue
		}
		e.expiresAt = exp
		s.data[sessionID][k] = e
	}
	return nil
}

// Sweep borra lo vencido y devuelve cuántos valores eliminó.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for sid, vals := range s.data {
		for k, e := range vals {
			if s.expired(e) {
				delete(vals, k)
				n++
			}
		}
		if len(vals) == 0 {
			delete(s.data, sid)
		}
	}
	return n
}

func (s *SessionStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
