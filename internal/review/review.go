// Package review stages and validates reviews written on a movie page.
package review

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sendrec/moviedetail/internal/rating"
	"github.com/sendrec/moviedetail/internal/validate"
)

const idPrefix = "rev_"

type Reason string

const (
	RatingMissing Reason = "ratingMissing"
	TooShort      Reason = "tooShort"
	TooLong       Reason = "tooLong"
)

// ValidationError explains why a draft cannot be submitted.
type ValidationError struct {
	Reason  Reason
	message string
}

func (e *ValidationError) Error() string {
	if e.message != "" {
		return e.message
	}
	switch e.Reason {
	case RatingMissing:
		return "review rating is required"
	case TooShort:
		return fmt.Sprintf("review must be at least %d characters", validate.MinReviewLength)
	case TooLong:
		return fmt.Sprintf("review must be %d characters or fewer", validate.MaxReviewLength)
	default:
		return "review is invalid"
	}
}

// Draft is the unsubmitted rating and text of the review form.
type Draft struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// Length is the character count shown under the form, untrimmed.
func (d Draft) Length() int {
	return len([]rune(d.Content))
}

// Text is the content as it will be published. Length limits apply to it.
func (d Draft) Text() string {
	return SanitizeText(d.Content)
}

// Validate returns a *ValidationError describing the first failed rule, or nil.
func Validate(d Draft) error {
	if d.Rating < 1 {
		return &ValidationError{Reason: RatingMissing}
	}
	text := d.Text()
	if msg := validate.ReviewBody(text); msg != "" {
		reason := TooLong
		if validate.Length(text) < validate.MinReviewLength {
			reason = TooShort
		}
		return &ValidationError{Reason: reason, message: msg}
	}
	return nil
}

func CanSubmit(d Draft) bool {
	return Validate(d) == nil
}

// Submitted is a review accepted from the composer. Author and time come
// from the caller's session.
type Submitted struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Composer owns the review form of one movie page.
type Composer struct {
	mu    sync.Mutex
	draft Draft
	newID func() string
}

type Option func(*Composer)

func WithIDGenerator(fn func() string) Option {
	return func(c *Composer) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		newID: func() string {
			return idPrefix + ulid.Make().String()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stage stores the latest form values without validating them. A rating of
// zero or less clears the rating; anything else is clamped to the star scale.
func (c *Composer) Stage(stars int, content string) Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stars <= 0 {
		stars = 0
	} else {
		stars = rating.Stars.ClampInt(stars)
	}
	c.draft = Draft{Rating: stars, Content: content}
	return c.draft
}

func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) CanSubmit() bool {
	return CanSubmit(c.Draft())
}

// Submit validates the staged draft and, on success, returns the accepted
// review and resets the form. It fails exactly when CanSubmit reports false;
// on failure the draft is left as it was.
func (c *Composer) Submit(author string, at time.Time) (Submitted, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := Validate(c.draft); err != nil {
		return Submitted{}, err
	}

	submitted := Submitted{
		ID:          c.newID(),
		Author:      strings.TrimSpace(author),
		Rating:      c.draft.Rating,
		Content:     c.draft.Text(),
		SubmittedAt: at.UTC(),
	}
	c.draft = Draft{}
	return submitted, nil
}
