package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"annotate-web/internal/domain/session"
)

func TestSessionStore_SetGetDelete(t *testing.T) {
	s := NewSessionStore(time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "a", session.KeyToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", session.KeyToken, "tok"))
	require.NoError(t, s.Set(ctx, "a", session.KeyUser, "{}"))
	require.NoError(t, s.Set(ctx, "b", session.KeyToken, "other"))

	v, err := s.Get(ctx, "a", session.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	require.NoError(t, s.Delete(ctx, "a", session.KeyToken, session.KeyUser))
	_, err = s.Get(ctx, "a", session.KeyUser)
	require.ErrorIs(t, err, session.ErrNotFound)

	v, err = s.Get(ctx, "b", session.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "other", v)
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessionStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", session.KeyToken, "tok"))

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "a", session.KeyToken)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "a", session.KeyToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	require.Equal(t, 1, s.Sweep())
	require.Equal(t, 0, s.Sweep())
}

func TestSessionStore_TouchExtendsLiveValues(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessionStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", session.KeyToken, "tok"))
	require.NoError(t, s.Set(ctx, "b", session.KeyToken, "other"))

	now = now.Add(50 * time.Second)
	require.NoError(t, s.Touch(ctx, "a"))
	require.NoError(t, s.Touch(ctx, "missing"))

	now = now.Add(30 * time.Second)
	v, err := s.Get(ctx, "a", session.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	_, err = s.Get(ctx, "b", session.KeyToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	// lo vencido no revive
	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Touch(ctx, "a"))
	_, err = s.Get(ctx, "a", session.KeyToken)
	require.ErrorIs(t, err, session.ErrNotFound)
}
