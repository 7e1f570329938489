package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/myflix/internal/common/db"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/user/domain"
)

const userColumns = `id, username, password_hash, email, birthday, favorite_movies, created_at`

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

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user     domain.User
		id       string
		birthday *time.Time
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &user.Email, &birthday, &user.FavoriteMovies, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	user.Birthday = birthday
	return user, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "find_user_by_username", func() error {
		var scanErr error
		user, scanErr = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1`,
			username,
		))
		return scanErr
	})
	if err := db.HandleQueryError(err, ErrUserNotFound, "find_user_by_username", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	var users []domain.User
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "list_users", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, username ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		users = users[:0]
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("failed to scan user: %w", err)
			}
			users = append(users, user)
		}
		return rows.Err()
	})
	if err := db.HandleExecError(err, "list_users", start); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	favorites := user.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, email, birthday, favorite_movies, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(user.ID),
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Birthday,
		favorites,
		user.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrUsernameAlreadyExists
	}
	return db.HandleExecError(err, "create_user", start)
}

func (r *PgRepository) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
	if update.Empty() {
		return r.FindByUsername(ctx, username)
	}

	sets := make([]string, 0, 3)
	args := []any{username}
	if update.Email != nil {
		args = append(args, *update.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if update.Birthday != nil {
		args = append(args, *update.Birthday)
		sets = append(sets, fmt.Sprintf("birthday = $%d", len(args)))
	}
	if update.PasswordHash != nil {
		args = append(args, *update.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}

	start := time.Now()
	user, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE username = $1 RETURNING `+userColumns,
		args...,
	))
	if err := db.HandleQueryError(err, ErrUserNotFound, "update_user_profile", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) Delete(ctx context.Context, username string) (bool, error) {
	start := time.Now()
	var affected int64
	err := db.RetryWithBackoff(ctx, r.log, r.retry, "delete_user", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err := db.HandleExecError(err, "delete_user", start); err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AddFavorite appends in one conditional UPDATE so concurrent adds of the
// same id never duplicate it.
func (r *PgRepository) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	return r.mutateFavorites(ctx, "add_favorite",
		`UPDATE users
		 SET favorite_movies = CASE
		     WHEN $2 = ANY(favorite_movies) THEN favorite_movies
		     ELSE array_append(favorite_movies, $2)
		 END
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, movieID,
	)
}

func (r *PgRepository) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	return r.mutateFavorites(ctx, "remove_favorite",
		`UPDATE users
		 SET favorite_movies = array_remove(favorite_movies, $2)
		 WHERE username = $1
		 RETURNING `+userColumns,
		username, movieID,
	)
}

func (r *PgRepository) mutateFavorites(ctx context.Context, operation, query, username, movieID string) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, r.retry, operation, func() error {
		var scanErr error
		user, scanErr = scanUser(r.pool.QueryRow(ctx, query, username, movieID))
		return scanErr
	})
	if err := db.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

var _ Repository = (*PgRepository)(nil)
