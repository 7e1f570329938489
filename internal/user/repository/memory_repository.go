package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/AlibekovAA/myflix/internal/user/domain"
)

// MemoryRepository backs tests and local runs without Postgres. A single
// mutex serializes every mutation.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]domain.User)}
}

func cloneUser(u domain.User) domain.User {
	u.FavoriteMovies = slices.Clone(u.FavoriteMovies)
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	if u.Birthday != nil {
		b := *u.Birthday
		u.Birthday = &b
	}
	return u
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return ErrUsernameAlreadyExists
	}
	r.users[user.Username] = cloneUser(user)
	return nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Birthday != nil {
		b := *update.Birthday
		user.Birthday = &b
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	r.users[username] = user
	return cloneUser(user), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; !ok {
		return false, nil
	}
	delete(r.users, username)
	return true, nil
}

func (r *MemoryRepository) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	return r.mutateFavorites(ctx, username, func(favorites []string) []string {
		if slices.Contains(favorites, movieID) {
			return favorites
		}
		return append(favorites, movieID)
	})
}

func (r *MemoryRepository) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	return r.mutateFavorites(ctx, username, func(favorites []string) []string {
		return slices.DeleteFunc(favorites, func(id string) bool { return id == movieID })
	})
}

func (r *MemoryRepository) mutateFavorites(ctx context.Context, username string, mutate func([]string) []string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	user.FavoriteMovies = mutate(slices.Clone(user.FavoriteMovies))
	r.users[username] = user
	return cloneUser(user), nil
}

var _ Repository = (*MemoryRepository)(nil)
