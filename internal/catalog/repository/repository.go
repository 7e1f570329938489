package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/myflix/internal/catalog/domain"
	"github.com/AlibekovAA/myflix/internal/common/db"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/logger"
)

var (
	ErrMovieNotFound    = commonerrors.ErrMovieNotFound
	ErrGenreNotFound    = commonerrors.ErrGenreNotFound
	ErrDirectorNotFound = commonerrors.ErrDirectorNotFound
)

type Repository interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	FindMovieByTitle(ctx context.Context, title string) (domain.Movie, error)
	FindGenre(ctx context.Context, name string) (domain.Genre, error)
	FindDirector(ctx context.Context, name string) (domain.Director, error)
}

const movieSelect = `
	SELECT m.id, m.title, m.description, m.image_path, m.featured,
	       COALESCE(g.name, ''), COALESCE(g.description, ''),
	       COALESCE(d.name, ''), COALESCE(d.bio, ''), COALESCE(d.birth, ''), COALESCE(d.death, '')
	FROM movies m
	LEFT JOIN genres g ON g.name = m.genre_name
	LEFT JOIN directors d ON d.name = m.director_name`

type PgRepository struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log, retry: db.DefaultRetryConfig}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.ImagePath, &m.Featured,
		&m.Genre.Name, &m.Genre.Description,
		&m.Director.Name, &m.Director.Bio, &m.Director.Birth, &m.Director.Death,
	)
	return m, err
}

func (r *PgRepository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	start := time.Now()
	var movies []domain.Movie
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "list_movies", func() error {
		rows, err := r.pool.Query(ctx, movieSelect+` ORDER BY m.title ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		movies = movies[:0]
		for rows.Next() {
			m, err := scanMovie(rows)
			if err != nil {
				return err
			}
			movies = append(movies, m)
		}
		return rows.Err()
	})
	if err := db.HandleExecError(err, "list_movies", start); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, nil
}

func (r *PgRepository) FindMovieByTitle(ctx context.Context, title string) (domain.Movie, error) {
	start := time.Now()
	var movie domain.Movie
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "find_movie_by_title", func() error {
		var scanErr error
		movie, scanErr = scanMovie(r.pool.QueryRow(ctx, movieSelect+` WHERE m.title = $1`, title))
		return scanErr
	})
	if err := db.HandleQueryError(err, ErrMovieNotFound, "find_movie_by_title", start); err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

func (r *PgRepository) FindGenre(ctx context.Context, name string) (domain.Genre, error) {
	start := time.Now()
	var genre domain.Genre
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "find_genre", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT name, description FROM genres WHERE name = $1`,
			name,
		).Scan(&genre.Name, &genre.Description)
	})
	if err := db.HandleQueryError(err, ErrGenreNotFound, "find_genre", start); err != nil {
		return domain.Genre{}, err
	}
	return genre, nil
}

func (r *PgRepository) FindDirector(ctx context.Context, name string) (domain.Director, error) {
	start := time.Now()
	var director domain.Director
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "find_director", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT name, bio, birth, death FROM directors WHERE name = $1`,
			name,
		).Scan(&director.Name, &director.Bio, &director.Birth, &director.Death)
	})
	if err := db.HandleQueryError(err, ErrDirectorNotFound, "find_director", start); err != nil {
		return domain.Director{}, err
	}
	return director, nil
}

var _ Repository = (*PgRepository)(nil)
