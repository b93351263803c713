// Package session keeps the per-visitor page state: engagement toggles,
// rating widgets, review drafts and reviews submitted during the visit.
// Nothing here outlives the process.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/rating"
	"github.com/sendrec/moviedetail/internal/review"
)

const (
	CookieName = "md_session"

	DefaultIdleTTL = time.Hour
	tokenLifetime  = 24 * time.Hour
)

// MovieState is the interaction state of one movie page within a session.
type MovieState struct {
	Engagement *engagement.Flags
	Score      *rating.Input
	Composer   *review.Composer

	mu        sync.Mutex
	submitted []review.Submitted
}

func (ms *MovieState) AddSubmitted(r review.Submitted) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.submitted = append(ms.submitted, r)
}

// Submitted returns reviews posted during this session, newest first.
func (ms *MovieState) Submitted() []review.Submitted {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := slices.Clone(ms.submitted)
	slices.Reverse(out)
	return out
}

func (ms *MovieState) close() {
	if ms.Engagement != nil {
		ms.Engagement.Close()
	}
}

type Session struct {
	ID    string
	Guest string

	mu       sync.Mutex
	lastSeen time.Time
	movies   map[string]*MovieState
}

// Movie returns the state for movieID, building it with create on first use.
func (s *Session) Movie(movieID string, create func() *MovieState) *MovieState {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.movies[movieID]
	if !ok {
		ms = create()
		s.movies[movieID] = ms
	}
	return ms
}

// Lookup returns the state for movieID without creating it.
func (s *Session) Lookup(movieID string) (*MovieState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.movies[movieID]
	return ms, ok
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ms := range s.movies {
		ms.close()
	}
}

type Config struct {
	Secret        string
	IdleTTL       time.Duration
	SecureCookies bool
	Clock         func() time.Time
}

type Manager struct {
	mu       sync.Mutex
	secret   []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		secure:   cfg.SecureCookies,
		now:      clock,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Now() time.Time {
	return m.now()
}

// Load returns the caller's session, starting a new one (and setting the
// cookie) when the request carries no valid, live session token.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	now := m.now()

	if c, err := r.Cookie(CookieName); err == nil {
		if claims, err := parseToken(m.secret, c.Value, now); err == nil {
			m.mu.Lock()
			s, ok := m.sessions[claims.SessionID]
			m.mu.Unlock()
			if ok {
				s.touch(now)
				return s
			}
		}
	}

	return m.start(w, now)
}

// Peek returns the caller's live session without creating one.
func (m *Manager) Peek(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	claims, err := parseToken(m.secret, c.Value, m.now())
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[claims.SessionID]
	return s, ok
}

func (m *Manager) start(w http.ResponseWriter, now time.Time) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:       id,
		Guest:    "Guest-" + id[:4],
		lastSeen: now,
		movies:   make(map[string]*MovieState),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	token, err := signToken(m.secret, s.ID, s.Guest, now, tokenLifetime)
	if err != nil {
		slog.Error("session: failed to sign token", "session_id", s.ID, "error", err)
		return s
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenLifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// End tears a session down and cancels its pending pulse timers.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.close()
	}
}

// Sweep ends every session idle for longer than the configured TTL and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartSweeper runs Sweep on every tick until ctx is cancelled, then ends
// all remaining sessions.
func StartSweeper(ctx context.Context, m *Manager, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.closeAll()
				return
			case <-ticker.C:
				if n := m.Sweep(m.now()); n > 0 {
					slog.Info("session: swept idle sessions", "count", n)
				}
			}
		}
	}()
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}
