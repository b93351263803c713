package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sendrec/moviedetail/internal/catalog"
	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/filter"
	"github.com/sendrec/moviedetail/internal/rating"
	"github.com/sendrec/moviedetail/internal/review"
	"github.com/sendrec/moviedetail/internal/session"
	"github.com/sendrec/moviedetail/internal/validate"
)

const (
	TabOverview        = "overview"
	TabCast            = "cast"
	TabVideos          = "videos"
	TabReviews         = "reviews"
	TabRecommendations = "recommendations"

	noVideosMessage = "No videos found for the selected filter."
)

var tabs = []struct{ ID, Label string }{
	{TabOverview, "Overview"},
	{TabCast, "Cast & Crew"},
	{TabVideos, "Videos"},
	{TabReviews, "Reviews"},
	{TabRecommendations, "More Like This"},
}

var reviewThresholds = []int{8, 6, 4}

var actionLabels = map[engagement.Kind]struct{ Idle, Active, Pulse, Icon string }{
	engagement.Favorite: {"Favorite", "Liked!", "animate-pulse", "heart"},
	engagement.Bookmark: {"Watchlist", "Saved!", "animate-bounce", "bookmark"},
	engagement.Rated:    {"Rate", "Rated!", "animate-spin", "star"},
}

func parseTab(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, t := range tabs {
		if t.ID == raw {
			return raw
		}
	}
	return TabOverview
}

// parseVideoFilter reads ?videoType=. A type missing from the catalog still
// filters and yields an empty list.
func parseVideoFilter(raw string) filter.State[catalog.VideoType] {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == filter.All || validate.FilterParam(raw) != "" {
		return filter.State[catalog.VideoType]{}
	}
	vt := catalog.VideoType(raw)
	if !vt.Known() {
		slog.Debug("page: filtering on unknown video type", "type", raw)
	}
	return filter.By(filter.Eq(vt))
}

// parseReviewFilter reads ?minRating=. Anything that is not a threshold on
// the star scale selects all reviews.
func parseReviewFilter(raw string) filter.State[int] {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == filter.All {
		return filter.State[int]{}
	}
	n, err := strconv.Atoi(strings.TrimSuffix(raw, "+"))
	if err != nil || n < int(rating.Stars.Min) || n > int(rating.Stars.Max) {
		return filter.State[int]{}
	}
	return filter.By(filter.Min(n))
}

type tabView struct {
	ID     string
	Label  string
	Active bool
}

type actionView struct {
	Kind        string
	Label       string
	IdleLabel   string
	ActiveLabel string
	Icon        string
	Active      bool
	Pulsing     bool
	PulseClass  string
}

type movieView struct {
	catalog.Movie
	PosterURL string
	GenreList []string
	UserScore int
}

type scoreView struct {
	Value   float64
	Display string
	Min     float64
	Max     float64
	Step    float64
}

type filterButton struct {
	Value  string
	Label  string
	Count  int
	Active bool
	Href   string
}

type videoItem struct {
	catalog.Video
	PlayHref string
}

type videosView struct {
	Buttons      []filterButton
	Items        []videoItem
	NoResults    bool
	EmptyMessage string
}

type playerView struct {
	VideoID   string
	Title     string
	EmbedURL  string
	CloseHref string
}

type reviewView struct {
	catalog.Review
	DateLabel string
	Initial   string
	Own       bool
}

type draftView struct {
	Rating      int
	Content     string
	Length      int
	MaxLength   int
	CanSubmit   bool
	Placeholder string
}

type reviewsView struct {
	Total     int
	Options   []filterButton
	Items     []reviewView
	NoResults bool
	Draft     draftView
	Stars     []int
}

type pageData struct {
	Nonce           string
	PulseMillis     int64
	ActiveTab       string
	Tabs            []tabView
	Movie           movieView
	Actions         []actionView
	TrailerHref     string
	Player          *playerView
	Score           scoreView
	Cast            []catalog.CastMember
	Videos          videosView
	Reviews         reviewsView
	Recommendations []catalog.Recommendation
}

func buildTabs(active string) []tabView {
	out := make([]tabView, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, tabView{ID: t.ID, Label: t.Label, Active: t.ID == active})
	}
	return out
}

func buildActions(flags *engagement.Flags) []actionView {
	out := make([]actionView, 0, len(engagement.Kinds))
	for _, k := range engagement.Kinds {
		st := flags.State(k)
		labels := actionLabels[k]
		v := actionView{
			Kind:        string(k),
			Label:       labels.Idle,
			IdleLabel:   labels.Idle,
			ActiveLabel: labels.Active,
			Icon:        labels.Icon,
			Active:      st.Active,
			Pulsing:     st.Pulsing,
		}
		if st.Active {
			v.Label = labels.Active
		}
		if st.Pulsing {
			v.PulseClass = labels.Pulse
		}
		out = append(out, v)
	}
	return out
}

func buildScore(in *rating.Input) scoreView {
	scale := in.Scale()
	return scoreView{
		Value:   in.Value(),
		Display: strconv.FormatFloat(in.Value(), 'f', 1, 64),
		Min:     scale.Min,
		Max:     scale.Max,
		Step:    scale.Step,
	}
}

func videoTypeLabel(t catalog.VideoType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "s"
}

func videoFilterHref(value string) string {
	if value == filter.All {
		return "?tab=" + TabVideos
	}
	return "?tab=" + TabVideos + "&videoType=" + value
}

func buildVideos(videos []catalog.Video, state filter.State[catalog.VideoType]) videosView {
	counts := filter.CountByCategory(videos, catalog.VideoTypeOf)
	view := filter.Apply(videos, catalog.VideoTypeOf, state)

	buttons := []filterButton{{
		Value:  filter.All,
		Label:  "All Videos",
		Count:  counts.All,
		Active: state.IsAll(),
		Href:   videoFilterHref(filter.All),
	}}
	for _, t := range catalog.VideoTypes {
		buttons = append(buttons, filterButton{
			Value:  string(t),
			Label:  videoTypeLabel(t),
			Count:  counts.Of(t),
			Active: state.Selects(t),
			Href:   videoFilterHref(string(t)),
		})
	}

	items := make([]videoItem, 0, len(view.Items))
	for _, v := range view.Items {
		item := videoItem{Video: v}
		if v.EmbedURL != "" {
			item.PlayHref = videoFilterHref(state.Active()) + "&play=" + url.QueryEscape(v.ID)
		}
		items = append(items, item)
	}

	out := videosView{Buttons: buttons, Items: items, NoResults: view.NoResults()}
	if out.NoResults {
		out.EmptyMessage = noVideosMessage
	}
	return out
}

// trailer returns the first trailer that can be played inline.
func trailer(videos []catalog.Video) (catalog.Video, bool) {
	for _, v := range videos {
		if v.Type == catalog.VideoTrailer && v.EmbedURL != "" {
			return v, true
		}
	}
	return catalog.Video{}, false
}

func trailerHref(videos []catalog.Video, activeTab string) string {
	v, ok := trailer(videos)
	if !ok {
		return ""
	}
	return "?tab=" + activeTab + "&play=" + url.QueryEscape(v.ID)
}

// buildPlayer opens the embedded player for ?play=. Videos without an embed
// URL cannot be played inline and yield nil.
func buildPlayer(videos []catalog.Video, playID, closeHref string) *playerView {
	if playID == "" {
		return nil
	}
	for _, v := range videos {
		if v.ID == playID && v.EmbedURL != "" {
			return &playerView{VideoID: v.ID, Title: v.Title, EmbedURL: v.EmbedURL, CloseHref: closeHref}
		}
	}
	return nil
}

func reviewFilterOptions(state filter.State[int]) []filterButton {
	opts := []filterButton{{Value: filter.All, Label: "All Ratings", Active: state.IsAll()}}
	for _, n := range reviewThresholds {
		opts = append(opts, filterButton{
			Value:  strconv.Itoa(n),
			Label:  fmt.Sprintf("%d+ Stars", n),
			Active: state.Selects(n),
		})
	}
	return opts
}

// reviewList puts reviews submitted in this session ahead of the published ones.
func reviewList(published []catalog.Review, ms *session.MovieState) ([]catalog.Review, map[string]bool) {
	own := map[string]bool{}
	if ms == nil {
		return slices.Clone(published), own
	}
	submitted := ms.Submitted()
	out := make([]catalog.Review, 0, len(submitted)+len(published))
	for _, s := range submitted {
		own[s.ID] = true
		out = append(out, fromSubmitted(s))
	}
	return append(out, published...), own
}

func fromSubmitted(s review.Submitted) catalog.Review {
	return catalog.Review{
		ID:      s.ID,
		Author:  s.Author,
		Rating:  s.Rating,
		Date:    s.SubmittedAt,
		Content: s.Content,
	}
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

func (h *Handler) buildReviews(ctx context.Context, all []catalog.Review, own map[string]bool, state filter.State[int], draft review.Draft, title string) reviewsView {
	view := filter.Apply(all, catalog.ReviewRating, state)

	items := make([]reviewView, 0, len(view.Items))
	for _, rv := range view.Items {
		rv.Avatar = h.mediaURL(ctx, rv.Avatar)
		items = append(items, reviewView{
			Review:    rv,
			DateLabel: rv.Date.Format("January 2, 2006"),
			Initial:   initial(rv.Author),
			Own:       own[rv.ID],
		})
	}

	stars := make([]int, 0, int(rating.Stars.Max))
	for i := int(rating.Stars.Min); i <= int(rating.Stars.Max); i++ {
		stars = append(stars, i)
	}

	return reviewsView{
		Total:     len(all),
		Options:   reviewFilterOptions(state),
		Items:     items,
		NoResults: view.NoResults(),
		Stars:     stars,
		Draft: draftView{
			Rating:      draft.Rating,
			Content:     draft.Content,
			Length:      draft.Length(),
			MaxLength:   validate.MaxReviewLength,
			CanSubmit:   review.CanSubmit(draft),
			Placeholder: fmt.Sprintf("Share your thoughts about %s...", title),
		},
	}
}

func (h *Handler) resolveDetails(ctx context.Context, d catalog.Details) catalog.Details {
	d.Cast = slices.Clone(d.Cast)
	for i := range d.Cast {
		d.Cast[i].Photo = h.mediaURL(ctx, d.Cast[i].Photo)
	}
	d.Videos = slices.Clone(d.Videos)
	for i := range d.Videos {
		d.Videos[i].Thumbnail = h.mediaURL(ctx, d.Videos[i].Thumbnail)
	}
	d.Recommendations = slices.Clone(d.Recommendations)
	for i := range d.Recommendations {
		d.Recommendations[i].Poster = h.mediaURL(ctx, d.Recommendations[i].Poster)
	}
	return d
}
