package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ session.Store = (*SessionStore)(nil)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const sessionsDDL = `
	CREATE TABLE IF NOT EXISTS dashboard_sessions (
		id         UUID PRIMARY KEY,
		token      TEXT        NOT NULL,
		user_data  JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS dashboard_sessions_expires_at_idx ON dashboard_sessions (expires_at)`

// SessionStore guarda las sesiones en PostgreSQL para que sobrevivan reinicios y se
// compartan entre réplicas. La caché de listas queda en el proceso: tras un reinicio o
// en otra réplica arranca vacía y se vuelve a llenar desde el backend.
type SessionStore struct {
	q   Querier
	now func() time.Time

	mu     sync.Mutex
	caches map[string]cacheEntry
}

type cacheEntry struct {
	cache     *session.Cache
	expiresAt time.Time
}

// NewSessionStore construye el adaptador. Pasar pool o tx (Querier).
func NewSessionStore(q Querier) *SessionStore {
	return &SessionStore{q: q, now: time.Now, caches: make(map[string]cacheEntry)}
}

// EnsureSchema crea la tabla de sesiones si no existe.
func (s *SessionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, sessionsDDL); err != nil {
		return fmt.Errorf("create dashboard_sessions: %w", err)
	}
	return nil
}

// sessionUser copia de entity.User con etiquetas JSON para la columna user_data.
type sessionUser struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Permission string    `json:"permission"`
	Verified   bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Save inserta o actualiza la sesión.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	u := sess.User()
	data, err := json.Marshal(sessionUser(u))
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	query := `
		INSERT INTO dashboard_sessions (id, token, user_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token, user_data = EXCLUDED.user_data, expires_at = EXCLUDED.expires_at`
	if _, err := s.q.Exec(ctx, query, sess.ID, sess.Token, data, sess.CreatedAt, sess.ExpiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.mu.Lock()
	s.caches[sess.ID] = cacheEntry{cache: sess.Cache, expiresAt: sess.ExpiresAt}
	s.mu.Unlock()
	return nil
}

// Get obtiene la sesión. Las vencidas se borran y devuelven domain.ErrSessionExpired.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `
		SELECT token, user_data, created_at, expires_at
		FROM dashboard_sessions WHERE id = $1`
	var (
		token              string
		data               []byte
		createdAt, expires time.Time
	)
	err := s.q.QueryRow(ctx, query, id).Scan(&token, &data, &createdAt, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !s.now().Before(expires) {
		_ = s.Delete(ctx, id)
		return nil, domain.ErrSessionExpired
	}
	var u sessionUser
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal session user: %w", err)
	}
	return session.Restore(id, token, entity.User(u), createdAt, expires, s.cacheFor(id, expires)), nil
}

// Delete borra la sesión.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.mu.Lock()
	delete(s.caches, id)
	s.mu.Unlock()
	return nil
}

// PurgeExpired borra las sesiones vencidas (y sus cachés locales) y devuelve cuántas
// filas se borraron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.now()
	tag, err := s.q.Exec(ctx, `DELETE FROM dashboard_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	s.mu.Lock()
	for id, e := range s.caches {
		if !now.Before(e.expiresAt) {
			delete(s.caches, id)
		}
	}
	s.mu.Unlock()
	return tag.RowsAffected(), nil
}

func (s *SessionStore) cacheFor(id string, expiresAt time.Time) *session.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.caches[id]
	if !ok {
		e = cacheEntry{cache: session.NewCache()}
	}
	e.expiresAt = expiresAt
	s.caches[id] = e
	return e.cache
}
