package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

const testMovieID = "tt3896198"

var movieColumns = []string{
	"id", "title", "year", "rated", "released", "runtime", "genre", "director", "writer",
	"actors", "plot", "tagline", "imdb_rating", "imdb_votes", "poster",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectMovie(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`SELECT id, title, year, rated, released, runtime, genre, director, writer, actors, plot, tagline, imdb_rating, imdb_votes, poster\s+FROM movies WHERE id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows(movieColumns).AddRow(
			testMovieID, "Guardians of the Galaxy Vol. 2", "2017", "PG-13", "05 May 2017", "136 min",
			"Action, Adventure, Comedy", "James Gunn", "James Gunn", "Chris Pratt, Zoe Saldana",
			"The Guardians struggle to keep together.", "Obviously.", "7.6", "782,000", "posters/tt3896198.jpg",
		))
}

func TestMovie_Found(t *testing.T) {
	mock := newMock(t)
	expectMovie(mock)

	m, err := NewStore(mock).Movie(context.Background(), testMovieID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "Guardians of the Galaxy Vol. 2" || m.IMDbRating != "7.6" {
		t.Errorf("unexpected movie %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}

func TestMovie_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM movies WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewStore(mock).Movie(context.Background(), "missing")

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMovie_QueryErrorIsWrapped(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`FROM movies WHERE id = \$1`).
		WithArgs(testMovieID).
		WillReturnError(boom)

	_, err := NewStore(mock).Movie(context.Background(), testMovieID)

	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}

func TestVideos_KeepsPositionOrder(t *testing.T) {
	mock := newMock(t)
	embed := "https://www.youtube.com/embed/dW1BIid8Osg"
	mock.ExpectQuery(`SELECT id, title, type, thumbnail, duration, embed_url\s+FROM movie_videos WHERE movie_id = \$1 ORDER BY position`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "type", "thumbnail", "duration", "embed_url"}).
			AddRow("1", "Official Trailer #2", "trailer", "t1.jpg", "2:31", &embed).
			AddRow("3", "Baby Groot Dance Scene", "clip", "t3.jpg", "1:42", (*string)(nil)))

	videos, err := NewStore(mock).Videos(context.Background(), testMovieID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].Type != VideoTrailer || videos[0].EmbedURL != embed {
		t.Errorf("unexpected first video %+v", videos[0])
	}
	if videos[1].Type != VideoClip || videos[1].EmbedURL != "" {
		t.Errorf("unexpected second video %+v", videos[1])
	}
}

func TestReviews_EmptyIsNotNil(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM movie_reviews WHERE movie_id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "author", "rating", "review_date", "content", "helpful", "unhelpful", "avatar"}))

	reviews, err := NewStore(mock).Reviews(context.Background(), testMovieID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", reviews)
	}
}

func TestDetails_LoadsEverySection(t *testing.T) {
	mock := newMock(t)
	expectMovie(mock)
	mock.ExpectQuery(`FROM movie_cast WHERE movie_id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "character", "photo"}).
			AddRow("Chris Pratt", "Peter Quill / Star-Lord", "cast/chris-pratt.jpg"))
	mock.ExpectQuery(`FROM movie_videos WHERE movie_id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "type", "thumbnail", "duration", "embed_url"}).
			AddRow("2", "Behind the Scenes: Making of", "featurette", "t2.jpg", "4:15", (*string)(nil)))
	mock.ExpectQuery(`FROM movie_reviews WHERE movie_id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "author", "rating", "review_date", "content", "helpful", "unhelpful", "avatar"}).
			AddRow("1", "MovieBuff2023", 9, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Absolutely fantastic sequel!", 24, 2, "a.png"))
	mock.ExpectQuery(`FROM movie_recommendations WHERE movie_id = \$1`).
		WithArgs(testMovieID).
		WillReturnRows(pgxmock.NewRows([]string{"rec_id", "title", "year", "rating", "genre", "duration", "poster"}).
			AddRow("tt2015381", "Guardians of the Galaxy", "2014", 8.0, "Action, Adventure, Comedy", "121 min", "posters/tt2015381.jpg"))

	d, err := NewStore(mock).Details(context.Background(), testMovieID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Cast) != 1 || len(d.Videos) != 1 || len(d.Reviews) != 1 || len(d.Recommendations) != 1 {
		t.Errorf("expected one item per section, got %+v", d)
	}
	if d.Reviews[0].Helpful != 24 || d.Recommendations[0].Rating != 8.0 {
		t.Errorf("unexpected row values %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}

func TestDetails_StopsWhenMovieMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM movies WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewStore(mock).Details(context.Background(), "nope")

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}
