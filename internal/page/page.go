package page

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sendrec/moviedetail/internal/catalog"
	"github.com/sendrec/moviedetail/internal/filter"
	"github.com/sendrec/moviedetail/internal/httputil"
	"github.com/sendrec/moviedetail/internal/rating"
)

func (h *Handler) MoviePage(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	nonce := httputil.NonceFromContext(r.Context())

	details, err := h.catalog.Details(r.Context(), movieID)
	if err != nil {
		status, message := http.StatusNotFound, "Movie not found"
		if !errors.Is(err, catalog.ErrNotFound) {
			status, message = http.StatusInternalServerError, "Something went wrong"
			slog.Error("page: failed to load movie page", "movie_id", movieID, "error", err)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := errorPageTemplate.Execute(w, errorPageData{Nonce: nonce, Message: message}); err != nil {
			slog.Error("page: failed to render error page", "error", err)
		}
		return
	}

	sess := h.sessions.Load(w, r)
	ms := h.movieState(sess, details.Movie)

	query := r.URL.Query()
	activeTab := parseTab(query.Get("tab"))
	videoState := parseVideoFilter(query.Get("videoType"))
	reviewState := parseReviewFilter(query.Get("minRating"))

	resolved := h.resolveDetails(r.Context(), details)
	reviews, own := reviewList(details.Reviews, ms)

	closeHref := "?tab=" + activeTab
	if activeTab == TabVideos {
		closeHref = videoFilterHref(videoState.Active())
	}

	data := pageData{
		Nonce:       nonce,
		PulseMillis: h.pulse.Milliseconds(),
		ActiveTab:   activeTab,
		Tabs:        buildTabs(activeTab),
		Movie: movieView{
			Movie:     details.Movie,
			PosterURL: h.mediaURL(r.Context(), details.Movie.Poster),
			GenreList: details.Movie.Genres(),
			UserScore: rating.ParseNormalize(details.Movie.IMDbRating, 10, 100),
		},
		Actions:         buildActions(ms.Engagement),
		TrailerHref:     trailerHref(details.Videos, activeTab),
		Player:          buildPlayer(details.Videos, query.Get("play"), closeHref),
		Score:           buildScore(ms.Score),
		Cast:            resolved.Cast,
		Videos:          buildVideos(resolved.Videos, videoState),
		Reviews:         h.buildReviews(r.Context(), reviews, own, reviewState, ms.Composer.Draft(), details.Movie.Title),
		Recommendations: resolved.Recommendations,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := moviePageTemplate.Execute(w, data); err != nil {
		slog.Error("page: failed to render movie page", "movie_id", movieID, "error", err)
	}
}

type videoCounts struct {
	All    int            `json:"all"`
	ByType map[string]int `json:"byType"`
}

type videosResponse struct {
	Filter    string          `json:"filter"`
	Applied   bool            `json:"applied"`
	NoResults bool            `json:"noResults"`
	Counts    videoCounts     `json:"counts"`
	Videos    []catalog.Video `json:"videos"`
}

type reviewsResponse struct {
	Filter    string           `json:"filter"`
	Applied   bool             `json:"applied"`
	NoResults bool             `json:"noResults"`
	Total     int              `json:"total"`
	Reviews   []catalog.Review `json:"reviews"`
}

func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	details, err := h.catalog.Details(r.Context(), movieID)
	if err != nil {
		h.writeCatalogError(w, movieID, err)
		return
	}

	state := parseVideoFilter(r.URL.Query().Get("type"))
	videos := h.resolveDetails(r.Context(), details).Videos
	view := filter.Apply(videos, catalog.VideoTypeOf, state)
	counts := filter.CountByCategory(videos, catalog.VideoTypeOf)

	byType := make(map[string]int, len(catalog.VideoTypes))
	for _, t := range catalog.VideoTypes {
		byType[string(t)] = 0
	}
	for t, n := range counts.ByCategory {
		byType[string(t)] = n
	}

	httputil.WriteJSON(w, http.StatusOK, videosResponse{
		Filter:    state.Active(),
		Applied:   view.Applied,
		NoResults: view.NoResults(),
		Counts:    videoCounts{All: counts.All, ByType: byType},
		Videos:    view.Items,
	})
}

func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	details, err := h.catalog.Details(r.Context(), movieID)
	if err != nil {
		h.writeCatalogError(w, movieID, err)
		return
	}

	all, _ := reviewList(details.Reviews, nil)
	if sess, ok := h.sessions.Peek(r); ok {
		if ms, ok := sess.Lookup(details.Movie.ID); ok {
			all, _ = reviewList(details.Reviews, ms)
		}
	}

	state := parseReviewFilter(r.URL.Query().Get("minRating"))
	view := filter.Apply(all, catalog.ReviewRating, state)
	for i := range view.Items {
		view.Items[i].Avatar = h.mediaURL(r.Context(), view.Items[i].Avatar)
	}

	httputil.WriteJSON(w, http.StatusOK, reviewsResponse{
		Filter:    state.Active(),
		Applied:   view.Applied,
		NoResults: view.NoResults(),
		Total:     len(all),
		Reviews:   view.Items,
	})
}
