package session

import (
	"context"
	"errors"
	"time"

	"petconnect-web/internal/ports/marketplace"
)

var (
	ErrNotFound = errors.New("session not found")
)

// Session es el único estado del cliente que sobrevive a una vista:
// el bearer token y la copia cacheada del perfil. Se crean juntos en
// el login y se borran juntos en el logout o ante un 401.
type Session struct {
	ID        string
	Token     string
	User      marketplace.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store persiste sesiones. Put es upsert: actualizar el perfil
// cacheado reescribe la sesión completa, nunca un parcial.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
