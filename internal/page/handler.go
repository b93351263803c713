// Package page serves the movie detail page and the interaction endpoints
// behind its favorite, bookmark and rating controls, video and review
// filters, and review form.
package page

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sendrec/moviedetail/internal/catalog"
	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/httputil"
	"github.com/sendrec/moviedetail/internal/rating"
	"github.com/sendrec/moviedetail/internal/review"
	"github.com/sendrec/moviedetail/internal/session"
)

type Catalog interface {
	Movie(ctx context.Context, id string) (catalog.Movie, error)
	Details(ctx context.Context, id string) (catalog.Details, error)
}

// MediaResolver turns a stored poster, photo or thumbnail reference into a
// URL the browser can load.
type MediaResolver interface {
	MediaURL(ctx context.Context, ref string) (string, error)
}

type Handler struct {
	catalog  Catalog
	media    MediaResolver
	sessions *session.Manager
	pulse    time.Duration
	schedule engagement.Scheduler
}

type Option func(*Handler)

func WithPulseDuration(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.pulse = d
		}
	}
}

// WithScheduler replaces the timer used to end pulses.
func WithScheduler(s engagement.Scheduler) Option {
	return func(h *Handler) {
		h.schedule = s
	}
}

func NewHandler(cat Catalog, media MediaResolver, sessions *session.Manager, opts ...Option) *Handler {
	h := &Handler{
		catalog:  cat,
		media:    media,
		sessions: sessions,
		pulse:    engagement.DefaultPulseDuration,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// interaction resolves the movie in the URL and the caller's state for it,
// writing the error response itself when it returns ok == false.
func (h *Handler) interaction(w http.ResponseWriter, r *http.Request) (*session.Session, *session.MovieState, bool) {
	movieID := chi.URLParam(r, "id")
	movie, err := h.catalog.Movie(r.Context(), movieID)
	if err != nil {
		h.writeCatalogError(w, movieID, err)
		return nil, nil, false
	}

	sess := h.sessions.Load(w, r)
	return sess, h.movieState(sess, movie), true
}

func (h *Handler) movieState(sess *session.Session, movie catalog.Movie) *session.MovieState {
	return sess.Movie(movie.ID, func() *session.MovieState {
		flagOpts := []engagement.Option{
			engagement.WithPulseDuration(h.pulse),
			engagement.WithClock(h.sessions.Now),
		}
		if h.schedule != nil {
			flagOpts = append(flagOpts, engagement.WithScheduler(h.schedule))
		}

		movieID, sessionID := movie.ID, sess.ID
		observer := rating.ObserverFunc(func(v float64) error {
			slog.Info("movie rated", "movie_id", movieID, "session_id", sessionID, "rating", v)
			return nil
		})

		return &session.MovieState{
			Engagement: engagement.New(flagOpts...),
			Score:      rating.NewInput(rating.Score, rating.OneDecimal(movie.IMDbRating), observer),
			Composer:   review.NewComposer(),
		}
	})
}

func (h *Handler) writeCatalogError(w http.ResponseWriter, movieID string, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "movie not found")
		return
	}
	slog.Error("page: failed to load movie", "movie_id", movieID, "error", err)
	httputil.WriteError(w, http.StatusInternalServerError, "failed to load movie")
}

func (h *Handler) mediaURL(ctx context.Context, ref string) string {
	if h.media == nil || ref == "" {
		return ref
	}
	u, err := h.media.MediaURL(ctx, ref)
	if err != nil {
		slog.Warn("page: failed to resolve media", "ref", ref, "error", err)
		return ""
	}
	return u
}
