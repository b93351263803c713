package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/review"
)

const testSecret = "test-secret-key-for-sessions"

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(clock *fakeClock) *Manager {
	return NewManager(Config{Secret: testSecret, IdleTTL: 10 * time.Minute, Clock: clock.Now})
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func TestLoad_StartsSessionAndSetsCookie(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	rec := httptest.NewRecorder()
	s := m.Load(rec, httptest.NewRequest(http.MethodGet, "/movies/tt3896198", nil))

	if s.ID == "" || !strings.HasPrefix(s.Guest, "Guest-") {
		t.Errorf("unexpected session identity %q / %q", s.ID, s.Guest)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly || c.Path != "/" {
		t.Errorf("cookie should be HttpOnly on /, got %+v", c)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", m.Len())
	}
}

func TestLoad_ReusesSessionFromCookie(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	rec := httptest.NewRecorder()
	first := m.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	rec2 := httptest.NewRecorder()
	second := m.Load(rec2, req)

	if first != second {
		t.Error("expected the same session for a valid cookie")
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for an existing session")
	}
}

func TestLoad_TamperedCookieStartsFreshSession(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	rec := httptest.NewRecorder()
	first := m.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: c.Value + "x"})
	second := m.Load(httptest.NewRecorder(), req)

	if first == second {
		t.Error("tampered token must not resolve to the original session")
	}
}

func TestPeek_DoesNotCreate(t *testing.T) {
	m := newTestManager(&fakeClock{now: time.Now()})

	if _, ok := m.Peek(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Error("expected no session without a cookie")
	}
	if m.Len() != 0 {
		t.Errorf("Peek must not create sessions, got %d", m.Len())
	}
}

func TestSweep_RemovesIdleSessionsAndStopsPulses(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)

	s := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	flags := engagement.New(engagement.WithClock(clock.Now), engagement.WithPulseDuration(time.Hour))
	s.Movie("tt3896198", func() *MovieState { return &MovieState{Engagement: flags} })
	flags.Toggle(engagement.Favorite)

	if n := m.Sweep(clock.now.Add(5 * time.Minute)); n != 0 {
		t.Fatalf("expected nothing swept before the TTL, got %d", n)
	}

	if n := m.Sweep(clock.now.Add(11 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if m.Len() != 0 {
		t.Errorf("expected no sessions left, got %d", m.Len())
	}
	if st := flags.State(engagement.Favorite); !st.Active || st.Pulsing {
		t.Errorf("expected flag kept active with pulse cancelled, got %+v", st)
	}
}

func TestMovie_CreatesOnce(t *testing.T) {
	m := newTestManager(&fakeClock{now: time.Now()})
	s := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	calls := 0
	create := func() *MovieState {
		calls++
		return &MovieState{}
	}
	a := s.Movie("tt1", create)
	b := s.Movie("tt1", create)
	s.Movie("tt2", create)

	if a != b {
		t.Error("expected the same state for the same movie")
	}
	if calls != 2 {
		t.Errorf("expected 2 creations, got %d", calls)
	}
}

func TestSubmitted_NewestFirst(t *testing.T) {
	ms := &MovieState{}
	ms.AddSubmitted(review.Submitted{ID: "rev_1"})
	ms.AddSubmitted(review.Submitted{ID: "rev_2"})

	got := ms.Submitted()
	if len(got) != 2 || got[0].ID != "rev_2" || got[1].ID != "rev_1" {
		t.Errorf("unexpected order %+v", got)
	}

	got[0].ID = "mutated"
	if ms.Submitted()[0].ID != "rev_2" {
		t.Error("Submitted must return a copy")
	}
}

func TestEnd_RemovesSession(t *testing.T) {
	m := newTestManager(&fakeClock{now: time.Now()})
	s := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	m.End(s.ID)
	m.End(s.ID)

	if m.Len() != 0 {
		t.Errorf("expected session removed, got %d", m.Len())
	}
}

func TestStartSweeper_ClosesAllOnShutdown(t *testing.T) {
	m := newTestManager(&fakeClock{now: time.Now()})
	m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	ctx, cancel := context.WithCancel(context.Background())
	StartSweeper(ctx, m, time.Hour)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Len() != 0 {
		t.Errorf("expected sessions closed after shutdown, got %d", m.Len())
	}
}

func TestToken_RoundTripAndExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	token, err := signToken([]byte(testSecret), "sid-1", "Guest-abcd", now, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := parseToken([]byte(testSecret), token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "sid-1" || claims.Guest != "Guest-abcd" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := parseToken([]byte(testSecret), token, now.Add(2*time.Hour)); err == nil {
		t.Error("expected expired token to be rejected")
	}
	if _, err := parseToken([]byte("other-secret"), token, now); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}
