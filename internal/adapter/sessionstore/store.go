// Package sessionstore keeps visitor sessions in memory, keyed by an id
// carried in a signed cookie.
package sessionstore

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	DefaultCookieName  = "storefront_session"
	DefaultIdleTimeout = 30 * time.Minute

	sidKey = "sid"
)

type Config struct {
	CookieName  string
	AuthKey     []byte
	IdleTimeout time.Duration
	Secure      bool
}

type entry struct {
	session  *domain.Session
	lastSeen time.Time
}

// A Store owns every live session. A session idle for longer than the
// idle timeout is gone, together with its cart.
type Store struct {
	cookies     sessions.Store
	cookieName  string
	idleTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

func New(cfg Config) *Store {
	const op = "sessionstore.New"

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if len(cfg.AuthKey) == 0 {
		slog.Warn("session auth key is not set, using a random one", "op", op)
		cfg.AuthKey = securecookie.GenerateRandomKey(32)
	}

	cookies := sessions.NewCookieStore(cfg.AuthKey)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.IdleTimeout.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{
		cookies:     cookies,
		cookieName:  cfg.CookieName,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
		entries:     make(map[string]*entry),
	}
}

// Load returns the visitor's session, starting a new one when the cookie
// is missing, forged or points to an expired session. The cookie is
// refreshed on every call.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	const op = "Store.Load"

	cookie, err := s.cookies.Get(r, s.cookieName)
	if err != nil {
		slog.Debug("discarding invalid session cookie", "op", op, "err", err)
	}

	sid, _ := cookie.Values[sidKey].(string)
	sess, sid := s.acquire(sid)
	cookie.Values[sidKey] = sid

	if err := cookie.Save(r, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) acquire(sid string) (*domain.Session, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if e, ok := s.entries[sid]; ok && !s.expired(e, now) {
		e.lastSeen = now
		return e.session, sid
	}
	delete(s.entries, sid)

	sid = uuid.NewString()
	e := &entry{session: domain.NewSession(), lastSeen: now}
	s.entries[sid] = e
	return e.session, sid
}

func (s *Store) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleTimeout {
		return
	}
	for sid, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, sid)
		}
	}
	s.lastSweep = now
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > s.idleTimeout
}
