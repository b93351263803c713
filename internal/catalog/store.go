package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sendrec/moviedetail/internal/database"
)

var ErrNotFound = errors.New("catalog: movie not found")

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) Movie(ctx context.Context, id string) (Movie, error) {
	var m Movie
	err := s.db.QueryRow(ctx,
		`SELECT id, title, year, rated, released, runtime, genre, director, writer, actors, plot, tagline, imdb_rating, imdb_votes, poster
		 FROM movies WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.Year, &m.Rated, &m.Released, &m.Runtime, &m.Genre, &m.Director,
		&m.Writer, &m.Actors, &m.Plot, &m.Tagline, &m.IMDbRating, &m.IMDbVotes, &m.Poster)
	if errors.Is(err, pgx.ErrNoRows) {
		return Movie{}, ErrNotFound
	}
	if err != nil {
		return Movie{}, fmt.Errorf("query movie: %w", err)
	}
	return m, nil
}

func (s *Store) Videos(ctx context.Context, movieID string) ([]Video, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, type, thumbnail, duration, embed_url
		 FROM movie_videos WHERE movie_id = $1 ORDER BY position`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		var v Video
		var videoType string
		var embedURL *string
		if err := rows.Scan(&v.ID, &v.Title, &videoType, &v.Thumbnail, &v.Duration, &embedURL); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.Type = VideoType(videoType)
		if embedURL != nil {
			v.EmbedURL = *embedURL
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

func (s *Store) Reviews(ctx context.Context, movieID string) ([]Review, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, author, rating, review_date, content, helpful, unhelpful, avatar
		 FROM movie_reviews WHERE movie_id = $1 ORDER BY review_date DESC, id`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Author, &r.Rating, &r.Date, &r.Content, &r.Helpful, &r.Unhelpful, &r.Avatar); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func (s *Store) Cast(ctx context.Context, movieID string) ([]CastMember, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, character, photo FROM movie_cast WHERE movie_id = $1 ORDER BY position`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cast: %w", err)
	}
	defer rows.Close()

	cast := []CastMember{}
	for rows.Next() {
		var c CastMember
		if err := rows.Scan(&c.Name, &c.Character, &c.Photo); err != nil {
			return nil, fmt.Errorf("scan cast member: %w", err)
		}
		cast = append(cast, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cast: %w", err)
	}
	return cast, nil
}

func (s *Store) Recommendations(ctx context.Context, movieID string) ([]Recommendation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT rec_id, title, year, rating, genre, duration, poster
		 FROM movie_recommendations WHERE movie_id = $1 ORDER BY position`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	recs := []Recommendation{}
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.Title, &r.Year, &r.Rating, &r.Genre, &r.Duration, &r.Poster); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}

// Details loads a movie and all of its page sections.
func (s *Store) Details(ctx context.Context, id string) (Details, error) {
	movie, err := s.Movie(ctx, id)
	if err != nil {
		return Details{}, err
	}
	cast, err := s.Cast(ctx, id)
	if err != nil {
		return Details{}, err
	}
	videos, err := s.Videos(ctx, id)
	if err != nil {
		return Details{}, err
	}
	reviews, err := s.Reviews(ctx, id)
	if err != nil {
		return Details{}, err
	}
	recs, err := s.Recommendations(ctx, id)
	if err != nil {
		return Details{}, err
	}
	return Details{
		Movie:           movie,
		Cast:            cast,
		Videos:          videos,
		Reviews:         reviews,
		Recommendations: recs,
	}, nil
}
