package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"petconnect-web/internal/ports/marketplace"
	"petconnect-web/internal/ports/session"
)

type store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore crea el store de sesiones sobre Postgres.
func NewStore(db *sql.DB) session.Store {
	return &store{db: db, now: time.Now}
}

func (s *store) Put(ctx context.Context, sess session.Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return errors.New("session id required")
	}

	userData, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, user_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token,
		    user_data = EXCLUDED.user_data,
		    expires_at = EXCLUDED.expires_at
	`,
		sess.ID,
		sess.Token,
		userData,
		sess.CreatedAt,
		sess.ExpiresAt,
	)
	return err
}

func (s *store) Get(ctx context.Context, id string) (session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, session.ErrNotFound
	}

	var (
		sess     session.Session
		userData []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, user_data, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(&sess.ID, &sess.Token, &userData, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, err
	}

	var u marketplace.User
	if err := json.Unmarshal(userData, &u); err != nil {
		return session.Session{}, err
	}
	sess.User = u

	if sess.Expired(s.now()) {
		_ = s.Delete(ctx, id)
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
