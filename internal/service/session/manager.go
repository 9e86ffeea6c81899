// Package session isolates dashboard state per browser session: each session
// owns its dataset cache and remembers its last filter selection per page.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/service/dataset"
)

// CookieName is the session cookie.
const CookieName = "admissions_session"

// DefaultIdleTTL is how long a session survives without requests.
const DefaultIdleTTL = 30 * time.Minute

// Session is one browser session's state.
type Session struct {
	ID       string
	Datasets *dataset.Service

	mu         sync.Mutex
	selections map[string]aggregate.Selection
	lastSeen   time.Time
}

// Selection returns the last selection stored for page.
func (s *Session) Selection(page string) (aggregate.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.selections[page]
	return sel, ok
}

// SetSelection stores sel as the current selection for page.
func (s *Session) SetSelection(page string, sel aggregate.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[page] = sel
}

// ClearSelection forgets the selection stored for page.
func (s *Session) ClearSelection(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, page)
}

// Manager creates and tracks sessions. Sessions idle longer than the idle
// TTL are dropped by Run.
type Manager struct {
	newDatasets func() *dataset.Service
	secure      bool
	idleTTL     time.Duration
	now         func() time.Time
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager. newDatasets builds the per-session dataset
// service; secure marks the cookie Secure.
func NewManager(newDatasets func() *dataset.Service, secure bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		newDatasets: newDatasets,
		secure:      secure,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// Get returns the session with id and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:         uuid.NewString(),
		Datasets:   m.newDatasets(),
		selections: make(map[string]aggregate.Selection),
		lastSeen:   m.now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Debug("session created", "session_id", s.ID)
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SetIdleTTL changes how long idle sessions are kept. Non-positive values
// are ignored.
func (m *Manager) SetIdleTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.idleTTL = ttl
	m.mu.Unlock()
}

// Run drops idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	ttl := m.idleTTL
	m.mu.Unlock()

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
			m.logger.Debug("session expired", "session_id", id)
		}
	}
}

type sessionKey struct{}

// Middleware attaches the caller's session to the request context, creating
// one and setting the cookie when the request carries none or an unknown id.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s *Session
		if c, err := r.Cookie(CookieName); err == nil {
			s, _ = m.Get(c.Value)
		}
		if s == nil {
			s = m.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
