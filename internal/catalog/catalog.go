// Package catalog reads the movie data a detail page is rendered from.
package catalog

import (
	"strings"
	"time"
)

type VideoType string

const (
	VideoTrailer    VideoType = "trailer"
	VideoClip       VideoType = "clip"
	VideoFeaturette VideoType = "featurette"
	VideoInterview  VideoType = "interview"
)

// VideoTypes is the display order of the video filter controls.
var VideoTypes = []VideoType{VideoTrailer, VideoClip, VideoFeaturette, VideoInterview}

func (t VideoType) Known() bool {
	for _, known := range VideoTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Movie struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Rated      string `json:"rated"`
	Released   string `json:"released"`
	Runtime    string `json:"runtime"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Writer     string `json:"writer"`
	Actors     string `json:"actors"`
	Plot       string `json:"plot"`
	Tagline    string `json:"tagline"`
	IMDbRating string `json:"imdbRating"`
	IMDbVotes  string `json:"imdbVotes"`
	Poster     string `json:"poster"`
}

// Genres splits the comma separated genre list.
func (m Movie) Genres() []string {
	var out []string
	for _, g := range strings.Split(m.Genre, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      VideoType `json:"type"`
	Thumbnail string    `json:"thumbnail"`
	Duration  string    `json:"duration"`
	EmbedURL  string    `json:"embedUrl,omitempty"`
}

// Review is a published review. Helpful and Unhelpful are display-only.
type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Date      time.Time `json:"date"`
	Content   string    `json:"content"`
	Helpful   int       `json:"helpful"`
	Unhelpful int       `json:"unhelpful"`
	Avatar    string    `json:"avatar"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Photo     string `json:"photo"`
}

type Recommendation struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Year     string  `json:"year"`
	Rating   float64 `json:"rating"`
	Genre    string  `json:"genre"`
	Duration string  `json:"duration"`
	Poster   string  `json:"poster"`
}

// Details is everything a movie page shows.
type Details struct {
	Movie           Movie
	Cast            []CastMember
	Videos          []Video
	Reviews         []Review
	Recommendations []Recommendation
}

// VideoTypeOf and ReviewRating are the categorical fields the page filters on.
func VideoTypeOf(v Video) VideoType { return v.Type }
func ReviewRating(r Review) int     { return r.Rating }
