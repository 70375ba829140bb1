// Package session contiene el estado por usuario del dashboard: token del backend,
// usuario actual y caché de listas. Se crea al iniciar sesión y se pasa explícitamente
// a cada caso de uso; no hay estado global.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
	"github.com/jhoicas/farmacia-admin/pkg/jwt"
)

// Session sesión autenticada de un usuario del dashboard.
type Session struct {
	ID        string
	Token     string // token del backend; nunca se envía al navegador
	CreatedAt time.Time
	ExpiresAt time.Time
	Cache     *Cache

	mu   sync.RWMutex
	user entity.User
}

// New crea una sesión. Si el token del backend es un JWT con exp, la sesión vence con él;
// si no, vence a los ttl.
func New(token string, user entity.User, now time.Time, ttl time.Duration) *Session {
	expires := now.Add(ttl)
	if exp, ok := jwt.ExpiresAt(token); ok && exp.Before(expires) {
		expires = exp
	}
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expires,
		Cache:     NewCache(),
		user:      user,
	}
}

// Restore reconstruye una sesión persistida (la caché arranca vacía salvo que se pase una).
func Restore(id, token string, user entity.User, createdAt, expiresAt time.Time, cache *Cache) *Session {
	if cache == nil {
		cache = NewCache()
	}
	return &Session{
		ID:        id,
		Token:     token,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		Cache:     cache,
		user:      user,
	}
}

// User devuelve el usuario actual.
func (s *Session) User() entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser reemplaza el usuario (tras editar el perfil o refrescarlo).
func (s *Session) SetUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Expired informa si la sesión venció a la fecha now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persiste sesiones. Get devuelve domain.ErrNotFound si no existe y
// domain.ErrSessionExpired si venció.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
