package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petconnect-web/internal/ports/session"
)

type store struct {
	mu   sync.RWMutex
	byID map[string]session.Session
	now  func() time.Time
}

// NewStore crea el store de sesiones in-memory (default cuando no hay DB_DSN).
func NewStore() session.Store {
	return &store{
		byID: make(map[string]session.Session),
		now:  time.Now,
	}
}

func (s *store) Put(ctx context.Context, sess session.Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return errors.New("session id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.ID] = sess
	return nil
}

func (s *store) Get(ctx context.Context, id string) (session.Session, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()

	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if sess.Expired(s.now()) {
		// Expirada cuenta como inexistente; se limpia de paso.
		s.mu.Lock()
		delete(s.byID, id)
		s.mu.Unlock()
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}
