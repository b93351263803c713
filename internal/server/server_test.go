package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sendrec/moviedetail/internal/catalog"
	"github.com/sendrec/moviedetail/internal/server"
	"github.com/sendrec/moviedetail/internal/session"
)

// --- Mock types ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockCatalog struct{}

var testMovie = catalog.Movie{ID: "tt3896198", Title: "Guardians of the Galaxy Vol. 2", Year: "2017", IMDbRating: "7.6"}

func (mockCatalog) Movie(_ context.Context, id string) (catalog.Movie, error) {
	if id != testMovie.ID {
		return catalog.Movie{}, catalog.ErrNotFound
	}
	return testMovie, nil
}

func (c mockCatalog) Details(ctx context.Context, id string) (catalog.Details, error) {
	movie, err := c.Movie(ctx, id)
	if err != nil {
		return catalog.Details{}, err
	}
	return catalog.Details{
		Movie: movie,
		Videos: []catalog.Video{
			{ID: "v1", Title: "Trailer", Type: catalog.VideoTrailer},
			{ID: "v2", Title: "Clip", Type: catalog.VideoClip},
		},
	}, nil
}

// --- Helpers ---

func newServerWithoutCatalog() *server.Server {
	return server.New(server.Config{})
}

func newServerWithCatalog() *server.Server {
	return server.New(server.Config{
		Pinger:         &mockPinger{},
		Catalog:        mockCatalog{},
		Sessions:       session.NewManager(session.Config{Secret: "server-test-secret"}),
		BaseURL:        "https://movies.test",
		DefaultMovieID: testMovie.ID,
	})
}

func executeRequest(srv *server.Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func executeRequestWithBody(srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// --- Health ---

func TestHealthEndpointReturnsOK(t *testing.T) {
	rec := executeRequest(newServerWithoutCatalog(), http.MethodGet, "/api/health")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

func TestHealthEndpointWithPingFailure(t *testing.T) {
	srv := server.New(server.Config{Pinger: &mockPinger{err: errors.New("connection refused")}})
	rec := executeRequest(srv, http.MethodGet, "/api/health")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	expected := `{"status":"unhealthy","error":"database unreachable"}`
	if rec.Body.String() != expected {
		t.Errorf("expected body %q, got %q", expected, rec.Body.String())
	}
}

func TestHealthEndpointWrongMethodReturnsMethodNotAllowed(t *testing.T) {
	rec := executeRequest(newServerWithoutCatalog(), http.MethodPost, "/api/health")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

// --- Limits ---

func TestLimitsEndpoint(t *testing.T) {
	rec := executeRequest(newServerWithoutCatalog(), http.MethodGet, "/api/limits")

	var limits map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&limits); err != nil {
		t.Fatalf("decode limits: %v", err)
	}
	if limits["reviewMin"] != 10 || limits["reviewMax"] != 500 {
		t.Errorf("unexpected limits %v", limits)
	}
}

// --- Movie routes ---

func TestMovieRoutesNotRegisteredWithoutCatalog(t *testing.T) {
	rec := executeRequest(newServerWithoutCatalog(), http.MethodGet, "/movies/tt3896198")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a catalog, got %d", rec.Code)
	}
}

func TestMoviePageRoute(t *testing.T) {
	rec := executeRequest(newServerWithCatalog(), http.MethodGet, "/movies/tt3896198")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Guardians of the Galaxy Vol. 2") {
		t.Error("expected movie title in page")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected security headers on the page")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS for an https base URL")
	}
}

func TestMoviePageUnknownMovie(t *testing.T) {
	rec := executeRequest(newServerWithCatalog(), http.MethodGet, "/movies/tt0000000")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRootRedirectsToDefaultMovie(t *testing.T) {
	rec := executeRequest(newServerWithCatalog(), http.MethodGet, "/")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/movies/tt3896198" {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestActionRoute(t *testing.T) {
	rec := executeRequest(newServerWithCatalog(), http.MethodPost, "/movies/tt3896198/actions/bookmark")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"active":true,"pulsing":true}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestReviewSubmitRouteReturnsReason(t *testing.T) {
	rec := executeRequestWithBody(newServerWithCatalog(), http.MethodPost, "/movies/tt3896198/reviews", `{"rating": 9, "content": "short"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"reason":"tooShort"`) {
		t.Errorf("expected tooShort reason, got %s", rec.Body.String())
	}
}

func TestVideosAPIRoute(t *testing.T) {
	rec := executeRequest(newServerWithCatalog(), http.MethodGet, "/api/movies/tt3896198/videos?type=trailer")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"filter":"trailer"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestActionRoutesRateLimited(t *testing.T) {
	srv := newServerWithCatalog()

	var last *httptest.ResponseRecorder
	for i := 0; i < 25; i++ {
		last = executeRequest(srv, http.MethodPost, "/movies/tt3896198/actions/favorite")
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exhausting the burst, got %d", last.Code)
	}
}

// --- Docs ---

func TestDocsRoutesOnlyWhenEnabled(t *testing.T) {
	if rec := executeRequest(newServerWithoutCatalog(), http.MethodGet, "/api/docs/openapi.yaml"); rec.Code != http.StatusNotFound {
		t.Errorf("expected docs disabled by default, got %d", rec.Code)
	}

	srv := server.New(server.Config{EnableDocs: true})
	if rec := executeRequest(srv, http.MethodGet, "/api/docs/openapi.yaml"); rec.Code != http.StatusOK {
		t.Errorf("expected spec served when enabled, got %d", rec.Code)
	}
}
