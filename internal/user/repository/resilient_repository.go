package repository

import (
	"context"

	"github.com/AlibekovAA/myflix/internal/common/resilience"
	"github.com/AlibekovAA/myflix/internal/user/domain"
)

// ResilientRepository routes every call through a circuit breaker so a
// failing database is rejected fast instead of piling up requests.
type ResilientRepository struct {
	next    Repository
	breaker *resilience.CircuitBreaker
}

func NewResilientRepository(next Repository, breaker *resilience.CircuitBreaker) *ResilientRepository {
	return &ResilientRepository{next: next, breaker: breaker}
}

func (r *ResilientRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.FindByUsername(ctx, username)
		return err
	})
	return user, err
}

func (r *ResilientRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		users, err = r.next.List(ctx)
		return err
	})
	return users, err
}

func (r *ResilientRepository) Create(ctx context.Context, user domain.User) error {
	return r.breaker.Call(ctx, func(ctx context.Context) error {
		return r.next.Create(ctx, user)
	})
}

func (r *ResilientRepository) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.UpdateProfile(ctx, username, update)
		return err
	})
	return user, err
}

func (r *ResilientRepository) Delete(ctx context.Context, username string) (bool, error) {
	var deleted bool
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = r.next.Delete(ctx, username)
		return err
	})
	return deleted, err
}

func (r *ResilientRepository) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.AddFavorite(ctx, username, movieID)
		return err
	})
	return user, err
}

func (r *ResilientRepository) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.RemoveFavorite(ctx, username, movieID)
		return err
	})
	return user, err
}

var _ Repository = (*ResilientRepository)(nil)
