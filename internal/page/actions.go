package page

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/httputil"
	"github.com/sendrec/moviedetail/internal/review"
	"github.com/sendrec/moviedetail/internal/validate"
)

type rateRequest struct {
	Value float64 `json:"value"`
}

type rateResponse struct {
	Rating float64 `json:"rating"`
}

type draftRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type draftResponse struct {
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	Length    int    `json:"length"`
	MaxLength int    `json:"maxLength"`
	CanSubmit bool   `json:"canSubmit"`
}

type submittedResponse struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Rating      int    `json:"rating"`
	Content     string `json:"content"`
	SubmittedAt string `json:"submittedAt"`
}

func newDraftResponse(d review.Draft) draftResponse {
	return draftResponse{
		Rating:    d.Rating,
		Content:   d.Content,
		Length:    d.Length(),
		MaxLength: validate.MaxReviewLength,
		CanSubmit: review.CanSubmit(d),
	}
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	kind, ok := engagement.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "unknown action")
		return
	}

	_, ms, ok := h.interaction(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ms.Engagement.Toggle(kind))
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, ms, ok := h.interaction(w, r)
	if !ok {
		return
	}

	value, err := ms.Score.Rate(req.Value)
	if err != nil {
		slog.Error("page: rating observer failed", "session_id", sess.ID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to record rating")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rateResponse{Rating: value})
}

func (h *Handler) StageDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, ms, ok := h.interaction(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newDraftResponse(ms.Composer.Stage(req.Rating, req.Content)))
}

// SubmitReview submits the staged draft. A JSON body, when present, is
// staged first so the form can stage and submit in one request.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	hasBody := true
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		if !errors.Is(err, io.EOF) {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		hasBody = false
	}

	sess, ms, ok := h.interaction(w, r)
	if !ok {
		return
	}

	if hasBody {
		ms.Composer.Stage(req.Rating, req.Content)
	}

	submitted, err := ms.Composer.Submit(sess.Guest, h.sessions.Now())
	if err != nil {
		var vErr *review.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteErrorReason(w, http.StatusUnprocessableEntity, vErr.Error(), string(vErr.Reason))
			return
		}
		slog.Error("page: failed to submit review", "session_id", sess.ID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to submit review")
		return
	}

	ms.AddSubmitted(submitted)
	slog.Info("review submitted", "session_id", sess.ID, "review_id", submitted.ID, "rating", submitted.Rating)

	httputil.WriteJSON(w, http.StatusCreated, submittedResponse{
		ID:          submitted.ID,
		Author:      submitted.Author,
		Rating:      submitted.Rating,
		Content:     submitted.Content,
		SubmittedAt: submitted.SubmittedAt.Format(time.RFC3339),
	})
}
