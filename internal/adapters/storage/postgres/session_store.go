package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"annotate-web/internal/domain/session"
)

type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *sql.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

func (r *SessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT value
		FROM web_session_values
		WHERE session_id = $1 AND key = $2 AND expires_at > $3
	`, sessionID, key, r.now())

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", session.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set hace upsert y renueva el vencimiento.
func (r *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO web_session_values (session_id, key, value, expires_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, sessionID, key, value, r.now().Add(r.ttl))
	return err
}

func (r *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM web_session_values
			WHERE session_id = $1 AND key = $2
		`, sessionID, k); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Touch renueva el vencimiento de los valores vigentes de la sesión.
func (r *SessionStore) Touch(ctx context.Context, sessionID string) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE web_session_values
		SET expires_at = $1
		WHERE session_id = $2 AND expires_at > $3
	`, now.Add(r.ttl), sessionID, now)
	return err
}

// DeleteExpired limpia sesiones vencidas.
func (r *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM web_session_values
		WHERE expires_at <= $1
	`, r.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
